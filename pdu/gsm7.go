package pdu

import "strings"

// escapeSeptet switches to the extension table for the following septet.
const escapeSeptet = 0x1B

// defaultAlphabet is the GSM 7-bit default alphabet according to [DCS] 6.2.1. The escape position
// 0x1B is never looked up.
var defaultAlphabet = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', 0x1B, 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

// extensionTable is the default alphabet extension table according to [DCS] 6.2.1.1.
var extensionTable = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

// septetReader unpacks septets from octets, keeping the unused high bits of the last octet as carry.
type septetReader struct {
	octets    []byte
	carry     byte
	carryBits int
}

// newSeptetReader skips the given number of fill bits at the start of the octets.
func newSeptetReader(octets []byte, padding int) *septetReader {
	result := &septetReader{octets: octets}
	if padding > 0 && padding < 8 && len(octets) > 0 {
		result.carry = octets[0] >> padding
		result.carryBits = 8 - padding
		result.octets = octets[1:]
	}
	return result
}

func (r *septetReader) next() (byte, bool) {
	if r.carryBits >= 7 {
		result := r.carry & 0x7F
		r.carry >>= 7
		r.carryBits -= 7
		return result, true
	}
	if len(r.octets) == 0 {
		return 0, false
	}

	o := r.octets[0]
	r.octets = r.octets[1:]
	result := (o<<r.carryBits | r.carry) & 0x7F
	r.carry = o >> (7 - r.carryBits)
	r.carryBits++
	return result, true
}

// DecodeSeptets decodes packed GSM 7-bit septets into text. The padding is the number of fill bits
// preceding the first septet. At most limit septets are consumed, a negative limit decodes
// all available septets. Unmapped extension characters are dropped.
func DecodeSeptets(octets []byte, padding int, limit int) string {
	var result strings.Builder
	reader := newSeptetReader(octets, padding)
	consumed := 0
	available := func() bool {
		return limit < 0 || consumed < limit
	}

	for available() {
		septet, ok := reader.next()
		if !ok {
			break
		}
		consumed++

		if septet != escapeSeptet {
			result.WriteRune(defaultAlphabet[septet])
			continue
		}

		if !available() {
			break
		}
		extension, ok := reader.next()
		if !ok {
			break
		}
		consumed++
		if r, ok := extensionTable[extension]; ok {
			result.WriteRune(r)
		}
	}

	return result.String()
}
