package gsm

import (
	"context"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidPDUFormat indicates a PDU string that contains non-hex characters or has an odd length.
var ErrInvalidPDUFormat = errors.New("invalid PDU string")

var octetPattern = regexp.MustCompile(`^[0-9A-Fa-f]{2}$`)

// SplitOctets splits the hex representation of a PDU into its octets. Every two characters must form
// a valid hex number, otherwise ErrInvalidPDUFormat is returned.
func SplitOctets(s string) ([]byte, error) {
	result := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		end := i + 2
		if end > len(s) {
			end = len(s)
		}
		token := s[i:end]
		if !octetPattern.MatchString(token) {
			return nil, ErrInvalidPDUFormat
		}
		octet, err := hex.DecodeString(token)
		if err != nil {
			return nil, ErrInvalidPDUFormat
		}
		result = append(result, octet[0])
	}
	return result, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Sanitize removes all whitespace, e.g. from PDUs copied out of a trace.
func Sanitize(s string) string {
	return whitespace.ReplaceAllString(s, "")
}

// OctetsToHex converts a slice of octets into the upper case hex representation used by modems and traces.
func OctetsToHex(octets []byte) string {
	return strings.ToUpper(hex.EncodeToString(octets))
}

// Requester sends an AT request and returns the response lines.
type Requester interface {
	Request(context.Context, string) ([]string, error)
}

type RequesterFunc func(context.Context, string) ([]string, error)

func (f RequesterFunc) Request(ctx context.Context, request string) ([]string, error) {
	return f(ctx, request)
}
