// Package wbxml calls an external service that turns WAP Binary XML into readable markup.
package wbxml

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ftl/sms-pdu/gsm"
)

// maxResponseSize limits the markup read from the service.
const maxResponseSize = 1 << 20

// HTTPDecoder posts WBXML octets as hex string to a decoding service.
type HTTPDecoder struct {
	url    string
	client *http.Client
	logger logrus.FieldLogger
}

// NewHTTPDecoder creates a decoder for the service at the given URL. If client is nil, http.DefaultClient is used.
func NewHTTPDecoder(serviceURL string, client *http.Client) *HTTPDecoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPDecoder{
		url:    serviceURL,
		client: client,
		logger: logrus.StandardLogger(),
	}
}

// WithLogger sets the logger used to report failed requests.
func (d *HTTPDecoder) WithLogger(logger logrus.FieldLogger) *HTTPDecoder {
	d.logger = logger
	return d
}

// DecodeWBXML implements pdu.WBXMLDecoder. The request is bound to the given context.
func (d *HTTPDecoder) DecodeWBXML(ctx context.Context, body []byte) (string, error) {
	result, err := d.post(ctx, body)
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"url":    d.url,
			"octets": len(body),
		}).Debug("WBXML decoding failed")
		return "", err
	}
	return result, nil
}

func (d *HTTPDecoder) post(ctx context.Context, body []byte) (string, error) {
	form := url.Values{}
	form.Set("octets", gsm.OctetsToHex(body))

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("cannot create WBXML request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := d.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("WBXML request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("WBXML service responded with %s", response.Status)
	}

	markup, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("cannot read WBXML response: %w", err)
	}
	return string(markup), nil
}
