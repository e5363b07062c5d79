package pdu

import (
	"fmt"
	"strings"
)

// DecodeNumber decodes a number in swapped nibble BCD format according to [TP] 9.1.2.3.
// The given length is the declared number of digits, 0 if it is unknown (SMSC).
// The result reports a violation if the number is padded with another nibble than F.
func DecodeNumber(octets []byte, length int) (string, bool) {
	var number strings.Builder
	for _, o := range octets {
		number.WriteString(swappedNibbles(o))
	}
	result := number.String()
	if result == "" {
		return result, false
	}

	last := result[len(result)-1]
	if !isDecimalDigit(last) || (length > 0 && len(result) > length) {
		result = result[:len(result)-1]
		if last != 'F' {
			return result + fmt.Sprintf(` (VIOLATION: number not padded with "F" but with "%c"!)`, last), true
		}
	}
	return result, false
}

// DecodeAlphanumericAddress decodes an address with type of number "alphanumeric". The length is
// the declared address length in semi-octets.
func DecodeAlphanumericAddress(octets []byte, length int) string {
	septets := length * 4 / 7
	return DecodeSeptets(octets, 0, septets)
}

func swappedNibbles(o byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[o&0x0F], digits[o>>4]})
}

func isDecimalDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// TypeOfAddress according to [TP] 9.1.2.5
type TypeOfAddress byte

// TypeOfNumber returns the bits 6-4 of the type of address.
func (t TypeOfAddress) TypeOfNumber() TypeOfNumber {
	return TypeOfNumber(t & 0x70)
}

// NumberingPlan returns the bits 3-0 of the type of address.
func (t TypeOfAddress) NumberingPlan() NumberingPlan {
	return NumberingPlan(t & 0x0F)
}

// Valid indicates if the mandatory highest bit is set.
func (t TypeOfAddress) Valid() bool {
	return t&0x80 != 0
}

// Info describes the type of address.
func (t TypeOfAddress) Info() string {
	result := t.TypeOfNumber().String() + ", " + t.NumberingPlan().String()
	if !t.Valid() {
		result += " (VIOLATION: Highest bit should always be set!)"
	}
	return result
}

// TypeOfNumber enum according to [TP] 9.1.2.5
type TypeOfNumber byte

// All type of number values
const (
	UnknownNumber          TypeOfNumber = 0x00
	InternationalNumber    TypeOfNumber = 0x10
	NationalNumber         TypeOfNumber = 0x20
	NetworkSpecificNumber  TypeOfNumber = 0x30
	SubscriberNumber       TypeOfNumber = 0x40
	AlphanumericNumber     TypeOfNumber = 0x50
	AbbreviatedNumber      TypeOfNumber = 0x60
	ReservedForExtensionTN TypeOfNumber = 0x70
)

var typeOfNumberTexts = map[TypeOfNumber]string{
	UnknownNumber:          "Unknown type of address",
	InternationalNumber:    "International number",
	NationalNumber:         "National number",
	NetworkSpecificNumber:  "Network specific number",
	SubscriberNumber:       "Subscriber number",
	AlphanumericNumber:     "Alphanumeric, (coded according to GSM TS 03.38 7-bit default alphabet)",
	AbbreviatedNumber:      "Abbreviated number",
	ReservedForExtensionTN: "Reserved for extension",
}

func (t TypeOfNumber) String() string {
	text, ok := typeOfNumberTexts[t]
	if !ok {
		return "Reserved type of address"
	}
	return text
}

// NumberingPlan enum according to [TP] 9.1.2.5
type NumberingPlan byte

var numberingPlanTexts = map[NumberingPlan]string{
	0x0: "Unknown",
	0x1: "ISDN/telephone numbering plan (E.164/E.163)",
	0x3: "Data numbering plan (X.121)",
	0x4: "Telex numbering plan",
	0x8: "National numbering plan",
	0x9: "Private numbering plan",
	0xA: "ERMES numbering plan (ETSI DE/PS 3 01-3)",
	0xF: "Reserved for extension",
}

func (p NumberingPlan) String() string {
	text, ok := numberingPlanTexts[p]
	if !ok {
		return "Reserved numbering plan"
	}
	return text
}
