package pdu

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	ucs2Codec     encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	fallbackCodec encoding.Encoding = charmap.ISO8859_1 // raw octets are shown as Latin-1, this is only a guess
)

// DecodeUserData decodes the user data octets with the given alphabet. For the default alphabet,
// padding is the number of fill bits after the user data header and limit the maximum number of septets
// to decode (negative for no limit). The formatting rules are applied to the decoded text in the given order.
func DecodeUserData(octets []byte, alphabet Alphabet, padding int, limit int, rules []FormattingRule) string {
	var text string
	switch alphabet {
	case Default7Bit:
		text = DecodeSeptets(octets, padding, limit)
	case UCS2:
		text = decodeText(ucs2Codec, octets)
	case EightBit:
		text = "(unknown binary data, try ASCII decoding) " + DecodeASCII(octets)
	default:
		text = "(unrecognized alphabet, try ASCII decoding) " + DecodeASCII(octets)
	}

	return ApplyFormatting(text, rules)
}

// DecodeASCII renders the given octets as ISO8859-1 text.
func DecodeASCII(octets []byte) string {
	return decodeText(fallbackCodec, octets)
}

func decodeText(codec encoding.Encoding, octets []byte) string {
	result, err := codec.NewDecoder().Bytes(octets)
	if err != nil { // be lenient and use the fallback
		result, _ = fallbackCodec.NewDecoder().Bytes(octets)
	}
	return string(result)
}

// ApplyFormatting wraps the text ranges of the given rules with the rules' markup. The ranges are
// taken from the unformatted text, each rule marks the first occurrence of its range in the text as
// formatted by the previous rules.
func ApplyFormatting(text string, rules []FormattingRule) string {
	if len(rules) == 0 {
		return text
	}

	original := []rune(text)
	result := text
	for _, rule := range rules {
		if len(rule.Style) == 0 {
			continue
		}
		part := substring(original, rule.Offset, rule.Length)
		if part == "" {
			continue
		}
		result = strings.Replace(result, part, rule.Open()+part+rule.Close(), 1)
	}
	return result
}

func substring(runes []rune, offset, length int) string {
	if offset < 0 || offset >= len(runes) || length <= 0 {
		return ""
	}
	end := offset + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[offset:end])
}
