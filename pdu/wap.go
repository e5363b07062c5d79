package pdu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ftl/sms-pdu/gsm"
)

// DefaultWBXMLTimeout limits the time the WBXML decoder may take for one body.
const DefaultWBXMLTimeout = 1000 * time.Millisecond

// WBXMLDecoder decodes a WAP binary XML body into its XML markup.
type WBXMLDecoder interface {
	DecodeWBXML(ctx context.Context, body []byte) (string, error)
}

// WBXMLDecoderFunc wraps a function into the WBXMLDecoder interface.
type WBXMLDecoderFunc func(ctx context.Context, body []byte) (string, error)

// DecodeWBXML calls f.
func (f WBXMLDecoderFunc) DecodeWBXML(ctx context.Context, body []byte) (string, error) {
	return f(ctx, body)
}

// WSPPDUType enum according to [WSP] 8.2.1
type WSPPDUType byte

// The only WSP PDU type that is interpreted.
const WSPPush WSPPDUType = 0x06

func (t WSPPDUType) String() string {
	if t == WSPPush {
		return "Push"
	}
	return "unknown"
}

// DecodeWAPPush decodes the user data of a WAP datagram: the WSP transaction ID, the PDU type, the
// WSP headers and the WBXML body. The body is handed to the given decoder, which must return within the
// given timeout. If the decoder is nil, fails, or does not return any markup, the body is shown as hex and ASCII
// and the field is marked as violation.
func DecodeWAPPush(ctx context.Context, octets []byte, decoder WBXMLDecoder, timeout time.Duration) Fields {
	at := func(i int) byte {
		if i < len(octets) {
			return octets[i]
		}
		return 0
	}

	result := make(Fields, 0, 4)
	result = append(result, Field{Label: LabelWSPTransactionID, Value: fmt.Sprintf("0x%02X", at(0))})
	result = append(result, Field{Label: LabelWSPType, Value: WSPPDUType(at(1)).String()})

	headersStart := 3
	headersEnd := clamp(headersStart+int(at(2)), len(octets))
	headers := DecodeWSPHeaders(octets[clamp(headersStart, len(octets)):headersEnd])
	result = append(result, Field{Label: LabelWirelessSessionHeader, Value: headers})

	body := octets[headersEnd:]
	markup, ok := decodeWBXML(ctx, body, decoder, timeout)
	result = append(result, Field{Label: LabelWAPBinaryXML, Value: markup, Violation: !ok})

	return result
}

func decodeWBXML(ctx context.Context, body []byte, decoder WBXMLDecoder, timeout time.Duration) (string, bool) {
	if decoder != nil {
		markup, err := callWBXMLDecoder(ctx, body, decoder, timeout)
		if err == nil && strings.Contains(markup, "<") {
			return markup, true
		}
	}

	return fmt.Sprintf("%s (could not be decoded, try ASCII decoding) %s", gsm.OctetsToHex(body), DecodeASCII(body)), false
}

type wbxmlResult struct {
	markup string
	err    error
}

func callWBXMLDecoder(ctx context.Context, body []byte, decoder WBXMLDecoder, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultWBXMLTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan wbxmlResult, 1)
	go func() {
		markup, err := decoder.DecodeWBXML(ctx, body)
		results <- wbxmlResult{markup, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-results:
		return r.markup, r.err
	}
}

// wellKnownWSPValues maps short integer values (without the high bit) to their text, see [WSP] table 40 and 42.
var wellKnownWSPValues = map[byte]string{
	0x01: "; charset=",
	0x2E: "application/vnd.wap.sic",
	0x30: "application/vnd.wap.slc",
	0x6A: "UTF-8",
}

type wspHeader struct {
	key      string
	value    strings.Builder
	length   int
	pos      int
	implicit bool
}

func (h *wspHeader) String() string {
	if h.key == "" {
		return h.value.String()
	}
	return h.key + ": " + h.value.String()
}

// DecodeWSPHeaders decodes the given WSP header octets according to [WSP] 8.4. Octets 1-31 start a new
// header with the given value length (31: the length follows in the next octet), octets 32-127 are text and
// octets 128-255 are well-known short values. The first header is always the content type.
func DecodeWSPHeaders(octets []byte) string {
	headers := make([]string, 0)
	var header *wspHeader

	newHeader := func(length int, implicit bool) *wspHeader {
		result := &wspHeader{length: length, implicit: implicit}
		if len(headers) == 0 {
			result.key = "Content-Type"
		}
		return result
	}
	push := func() {
		if header != nil {
			headers = append(headers, header.String())
			header = nil
		}
	}

	for i := 0; i < len(octets); i++ {
		o := octets[i]
		switch {
		case o == 0:
			if header != nil {
				header.pos++
			}
		case o < 32:
			push()
			length := int(o)
			if o == 31 && i+1 < len(octets) {
				i++
				length = int(octets[i])
			}
			header = newHeader(length, false)
		case o < 128:
			if header == nil {
				header = newHeader(0, true)
			}
			header.value.WriteByte(o)
			header.pos++
		default:
			if header == nil {
				header = newHeader(0, true)
			}
			header.value.WriteString(wellKnownWSPValues[o&0x7F])
			header.pos++
		}

		if header != nil && !header.implicit && header.pos >= header.length {
			push()
		}
	}
	push()

	return strings.Join(headers, ", ")
}

func clamp(i, limit int) int {
	if i > limit {
		return limit
	}
	return i
}
