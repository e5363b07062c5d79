package pdu

import (
	"fmt"
	"strconv"
)

// UserDataLength according to [TP] 9.2.3.16
type UserDataLength struct {
	// Count is the raw value: septets for the default alphabet, octets otherwise.
	Count  int
	Octets int
}

// ParseUserDataLength interprets the user data length octet using the given alphabet.
func ParseUserDataLength(o byte, alphabet Alphabet) UserDataLength {
	result := UserDataLength{Count: int(o), Octets: int(o)}
	if alphabet == Default7Bit {
		result.Octets = SeptetsToOctets(result.Count)
	}
	return result
}

// Info describes the user data length in characters and bytes.
func (l UserDataLength) Info(alphabet Alphabet) string {
	characters := strconv.Itoa(l.Count)
	if alphabet == UCS2 {
		characters = strconv.FormatFloat(float64(l.Octets)/2, 'f', -1, 64)
	}
	return fmt.Sprintf("%s characters, %d bytes", characters, l.Octets)
}

// SeptetsToOctets returns the number of octets needed to hold the given number of packed septets.
func SeptetsToOctets(septets int) int {
	bits := septets * 7
	result := bits / 8
	if bits%8 != 0 {
		result++
	}
	return result
}

// OctetsToSeptets returns the number of septets needed to cover the given number of octets.
func OctetsToSeptets(octets int) int {
	bits := octets * 8
	result := bits / 7
	if bits%7 != 0 {
		result++
	}
	return result
}

// HeaderLength is the user data header length according to [TP] 9.2.3.24.
type HeaderLength struct {
	// Length is the declared length of the header without the length octet itself.
	Length int
	// Padding is the number of fill bits between the header and the first septet (default alphabet only).
	Padding int
}

// ParseHeaderLength interprets the user data header length octet using the given alphabet.
func ParseHeaderLength(o byte, alphabet Alphabet) HeaderLength {
	result := HeaderLength{Length: int(o)}
	if alphabet == Default7Bit {
		headerBits := result.Octets() * 8
		result.Padding = OctetsToSeptets(result.Octets())*7 - headerBits
	}
	return result
}

// Octets returns the length of the header including the length octet.
func (h HeaderLength) Octets() int {
	return h.Length + 1
}

// Septets returns the number of septets the header occupies in a default alphabet user data.
func (h HeaderLength) Septets() int {
	return OctetsToSeptets(h.Octets())
}

// Info describes the header length.
func (h HeaderLength) Info() string {
	return fmt.Sprintf("%d bytes", h.Length)
}
