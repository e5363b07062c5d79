package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserDataLength(t *testing.T) {
	tt := []struct {
		desc     string
		value    byte
		alphabet Alphabet
		octets   int
		info     string
	}{
		{"empty", 0x00, Default7Bit, 0, "0 characters, 0 bytes"},
		{"default alphabet", 0x0A, Default7Bit, 9, "10 characters, 9 bytes"},
		{"full default alphabet", 0xA0, Default7Bit, 140, "160 characters, 140 bytes"},
		{"8 bit", 0x05, EightBit, 5, "5 characters, 5 bytes"},
		{"ucs2", 0x0A, UCS2, 10, "5 characters, 10 bytes"},
		{"odd ucs2", 0x05, UCS2, 5, "2.5 characters, 5 bytes"},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := ParseUserDataLength(tc.value, tc.alphabet)
			assert.Equal(t, int(tc.value), actual.Count)
			assert.Equal(t, tc.octets, actual.Octets)
			assert.Equal(t, tc.info, actual.Info(tc.alphabet))
		})
	}
}

func TestParseHeaderLength(t *testing.T) {
	tt := []struct {
		desc     string
		value    byte
		alphabet Alphabet
		padding  int
		septets  int
	}{
		{"concatenation", 0x05, Default7Bit, 1, 7},
		{"16 bit concatenation", 0x06, Default7Bit, 0, 8},
		{"ports", 0x06, Default7Bit, 0, 8},
		{"short", 0x03, Default7Bit, 3, 5},
		{"ucs2 has no padding", 0x05, UCS2, 0, 7},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual := ParseHeaderLength(tc.value, tc.alphabet)
			assert.Equal(t, int(tc.value), actual.Length)
			assert.Equal(t, tc.padding, actual.Padding)
			assert.Equal(t, tc.septets, actual.Septets())
			assert.Equal(t, int(tc.value)+1, actual.Octets())
		})
	}
}
