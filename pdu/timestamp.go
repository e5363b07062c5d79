package pdu

import (
	"fmt"
	"strconv"
	"strings"
)

// TimestampOctets is the length of a timestamp in semi-octet representation.
const TimestampOctets = 7

// DecodeTimestamp decodes a service centre time stamp or absolute validity period according to
// [TP] 9.2.3.11 into the format YYYY-MM-DD HH:MM:SS GMT ±H. Missing octets are treated as 0x00.
func DecodeTimestamp(octets []byte) string {
	var padded [TimestampOctets]byte
	copy(padded[:], octets)

	fields := make([]string, 6)
	for i := range fields {
		fields[i] = swappedNibbles(padded[i])
	}

	var result strings.Builder
	year, err := strconv.Atoi(fields[0])
	if err == nil && year >= 70 {
		result.WriteString("19")
	} else {
		result.WriteString("20")
	}
	fmt.Fprintf(&result, "%s-%s-%s %s:%s:%s GMT ", fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])

	zone := padded[6]<<4 | padded[6]>>4
	if zone&0x80 != 0 {
		result.WriteString("-")
	} else {
		result.WriteString("+")
	}
	quarters := int((zone&0x70)>>4)*10 + int(zone&0x0F)
	result.WriteString(strconv.FormatFloat(float64(quarters)/4, 'f', -1, 64))

	return result.String()
}

// DecodeRelativeValidityPeriod decodes a relative validity period according to [TP] 9.2.3.12.1.
// The thresholds are applied in order, so 187-196 decode as days and not as weeks.
func DecodeRelativeValidityPeriod(o byte) string {
	vp := int(o)
	switch {
	case vp < 144:
		return fmt.Sprintf("%d minutes", (vp+1)*5)
	case vp > 143 && vp < 168:
		hours := float64(vp-143)*30/60 + 12
		return strconv.FormatFloat(hours, 'f', -1, 64) + " hours"
	case vp > 167 && vp < 197:
		return fmt.Sprintf("%d days", vp-166)
	case vp > 186:
		return fmt.Sprintf("%d weeks", vp-192)
	default:
		return ""
	}
}

// DecodeEnhancedValidityPeriod decodes an enhanced validity period according to [TP] 9.2.3.12.3.
// Missing octets are treated as 0x00.
func DecodeEnhancedValidityPeriod(octets []byte) string {
	var padded [TimestampOctets]byte
	copy(padded[:], octets)

	indicator := padded[0]
	var result string
	switch indicator & 0x07 {
	case 0x00:
		result = "no validity period specified"
	case 0x01:
		result = DecodeRelativeValidityPeriod(padded[1])
	case 0x02:
		result = fmt.Sprintf("%d seconds", padded[1])
	case 0x03:
		result = fmt.Sprintf("%s:%s:%s", swappedNibbles(padded[1]), swappedNibbles(padded[2]), swappedNibbles(padded[3]))
	default:
		result = "reserved validity period format"
	}
	if indicator&0x40 != 0 {
		result += ", single shot SM"
	}
	if indicator&0x80 != 0 {
		result += ", extended functionality indicator"
	}
	return result
}

// DecodeMessageReference according to [TP] 9.2.3.6
func DecodeMessageReference(o byte) string {
	if o == 0 {
		return "Mobile equipment sets reference number"
	}
	return fmt.Sprintf("0x%02X", o)
}
