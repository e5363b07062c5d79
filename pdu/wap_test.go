package pdu

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWSPHeaders(t *testing.T) {
	tt := []struct {
		desc     string
		octets   []byte
		expected string
	}{
		{
			desc:     "empty",
			octets:   []byte{},
			expected: "",
		},
		{
			desc:     "SI content type with charset",
			octets:   []byte{0x03, 0xAE, 0x81, 0xEA},
			expected: "Content-Type: application/vnd.wap.sic; charset=UTF-8",
		},
		{
			desc:     "short content type without length",
			octets:   []byte{0xB0},
			expected: "Content-Type: application/vnd.wap.slc",
		},
		{
			desc:     "text content type",
			octets:   []byte{0x0B, 't', 'e', 'x', 't', '/', 'p', 'l', 'a', 'i', 'n', 0x00},
			expected: "Content-Type: text/plain",
		},
		{
			desc:     "length in next octet",
			octets:   []byte{0x1F, 0x02, 0xAE, 0x81},
			expected: "Content-Type: application/vnd.wap.sic; charset=",
		},
		{
			desc:     "two headers",
			octets:   []byte{0x01, 0xAE, 0x02, 'i', 'd'},
			expected: "Content-Type: application/vnd.wap.sic, id",
		},
		{
			desc:     "unfinished header is kept",
			octets:   []byte{0x05, 'a', 'b', 0x02, 'c', 'd'},
			expected: "Content-Type: ab, cd",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := DecodeWSPHeaders(tc.octets)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestDecodeWAPPush(t *testing.T) {
	body := []byte{0x02, 0x05, 0x6A, 0x00, 0x45, 0xC6, 0x01}
	octets := append([]byte{0x01, 0x06, 0x03, 0xAE, 0x81, 0xEA}, body...)
	fallback := "02056A0045C601 (could not be decoded, try ASCII decoding) \x02\x05j\x00EÆ\x01"

	tt := []struct {
		desc              string
		decoder           WBXMLDecoder
		expectedBody      string
		expectedViolation bool
	}{
		{
			desc: "decoded",
			decoder: WBXMLDecoderFunc(func(_ context.Context, b []byte) (string, error) {
				if bytes.Equal(body, b) {
					return "<si></si>", nil
				}
				return "", errors.New("unexpected body")
			}),
			expectedBody: "<si></si>",
		},
		{
			desc:              "no decoder",
			expectedBody:      fallback,
			expectedViolation: true,
		},
		{
			desc: "decoder fails",
			decoder: WBXMLDecoderFunc(func(context.Context, []byte) (string, error) {
				return "", errors.New("service unavailable")
			}),
			expectedBody:      fallback,
			expectedViolation: true,
		},
		{
			desc: "no markup",
			decoder: WBXMLDecoderFunc(func(context.Context, []byte) (string, error) {
				return "error: unknown public id", nil
			}),
			expectedBody:      fallback,
			expectedViolation: true,
		},
		{
			desc: "timeout",
			decoder: WBXMLDecoderFunc(func(ctx context.Context, _ []byte) (string, error) {
				time.Sleep(200 * time.Millisecond)
				return "<si></si>", nil
			}),
			expectedBody:      fallback,
			expectedViolation: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := DecodeWAPPush(context.Background(), octets, tc.decoder, 20*time.Millisecond)

			expected := Fields{
				{Label: LabelWSPTransactionID, Value: "0x01"},
				{Label: LabelWSPType, Value: "Push"},
				{Label: LabelWirelessSessionHeader, Value: "Content-Type: application/vnd.wap.sic; charset=UTF-8"},
				{Label: LabelWAPBinaryXML, Value: tc.expectedBody, Violation: tc.expectedViolation},
			}
			assert.Equal(t, expected, actual)
		})
	}
}

func TestDecodeWAPPush_Truncated(t *testing.T) {
	actual := DecodeWAPPush(context.Background(), []byte{0x2A}, nil, 0)

	require.Len(t, actual, 4)
	assert.Equal(t, "0x2A", actual[0].Value)
	assert.Equal(t, "unknown", actual[1].Value)
	assert.Equal(t, "", actual[2].Value)
	assert.True(t, actual[3].Violation)
}
