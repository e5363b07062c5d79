package pdu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ftl/sms-pdu/gsm"
)

// ParseUserDataHeader splits the given user data header octets (without the UDHL octet) into
// information elements according to [TP] 9.2.3.24 and interprets the known ones.
// Malformed elements are reported in the info text and through the Violation flag, they never
// stop the parsing.
func ParseUserDataHeader(octets []byte) UserDataHeader {
	var result UserDataHeader

	var element *InformationElement
	stage := 0
	for _, o := range octets {
		switch stage {
		case 0:
			element = &InformationElement{ID: InformationElementID(o)}
			stage = 1
		case 1:
			element.DeclaredLength = int(o)
			element.Payload = make([]byte, 0, element.DeclaredLength)
			stage = 2
		default:
			element.Payload = append(element.Payload, o)
		}
		if stage == 2 && len(element.Payload) >= element.DeclaredLength {
			result.Elements = append(result.Elements, *element)
			element = nil
			stage = 0
		}
	}
	if element != nil {
		element.Truncated = true
		result.Elements = append(result.Elements, *element)
	}

	info := make([]string, 0, len(result.Elements)+1)
	formatting := false
	for _, e := range result.Elements {
		var text string
		var violation bool
		switch e.ID {
		case ConcatenatedShortReference:
			result.Concatenation = &Concatenation{
				Reference: int(e.at(0)),
				Total:     int(e.at(1)),
				Part:      int(e.at(2)),
			}
			text = result.Concatenation.Info()
			violation = e.checkLength(&text, 3)
		case ConcatenatedLongReference:
			result.Concatenation = &Concatenation{
				Reference: int(e.at(0))<<8 | int(e.at(1)),
				Total:     int(e.at(2)),
				Part:      int(e.at(3)),
			}
			text = result.Concatenation.Info()
			violation = e.checkLength(&text, 4)
		case PortAddressing8Bit:
			text = fmt.Sprintf("Application port addressing (8 bit): Destination port is %d, source port is %d", e.at(0), e.at(1))
			violation = e.checkLength(&text, 2)
		case PortAddressing16Bit:
			destination := int(e.at(0))<<8 | int(e.at(1))
			source := int(e.at(2))<<8 | int(e.at(3))
			destinationText := strconv.Itoa(destination)
			if name, ok := wellKnownPorts[destination]; ok {
				destinationText += " (" + name + ")"
			} else {
				result.WAPDatagram = true
			}
			text = fmt.Sprintf("WDP (Wireless Datagram Protocol): Destination port is %s, source port is %d", destinationText, source)
			violation = e.checkLength(&text, 4)
		case TextFormatting:
			formatting = true
			result.Formatting = append(result.Formatting, parseFormattingRule(e))
			violation = e.checkLength(&text, 3, 4)
			if text != "" {
				text = "EMS text formatting" + text
			}
		default:
			text = fmt.Sprintf("IE 0x%02X: %s", byte(e.ID), gsm.OctetsToHex(e.Payload))
			if e.Truncated {
				text += fmt.Sprintf(" (VIOLATION: This Information Element should have %d bytes but actually has %d!)", e.DeclaredLength, len(e.Payload))
				violation = true
			}
		}
		if violation {
			result.Violation = true
		}
		if text != "" {
			info = append(info, text)
		}
	}
	if formatting {
		info = append(info, "has EMS formatting")
	}
	result.Info = strings.Join(info, "; ")

	return result
}

// UserDataHeader contains the information elements of a user data header and the
// information derived from them.
type UserDataHeader struct {
	Elements      []InformationElement
	WAPDatagram   bool
	Concatenation *Concatenation
	Formatting    []FormattingRule
	Info          string
	Violation     bool
}

// InformationElementID enum according to [TP] 9.2.3.24
type InformationElementID byte

// The information element identifiers that are interpreted, according to [TP] table 9.2.3.24.
const (
	ConcatenatedShortReference InformationElementID = 0x00
	PortAddressing8Bit         InformationElementID = 0x04
	PortAddressing16Bit        InformationElementID = 0x05
	ConcatenatedLongReference  InformationElementID = 0x08
	TextFormatting             InformationElementID = 0x0A
)

// InformationElement of a user data header. The payload may be shorter than the declared length
// if the header ends in the middle of the element, it is never longer.
type InformationElement struct {
	ID             InformationElementID
	DeclaredLength int
	Payload        []byte
	Truncated      bool
}

func (e InformationElement) at(i int) byte {
	if i < len(e.Payload) {
		return e.Payload[i]
	}
	return 0
}

// checkLength appends a violation text if the declared or the actual payload length is not one of
// the expected lengths.
func (e InformationElement) checkLength(text *string, expected ...int) bool {
	violation := false
	if !containsLength(expected, e.DeclaredLength) {
		*text += fmt.Sprintf(" (VIOLATION: This Information Element should have exactly %s bytes but says it has %d instead!)", lengthsText(expected), e.DeclaredLength)
		violation = true
	}
	if !containsLength(expected, len(e.Payload)) {
		*text += fmt.Sprintf(" (VIOLATION: This Information Element should have exactly %s bytes but actually has %d instead!)", lengthsText(expected), len(e.Payload))
		violation = true
	}
	return violation
}

func containsLength(lengths []int, length int) bool {
	for _, l := range lengths {
		if l == length {
			return true
		}
	}
	return false
}

func lengthsText(lengths []int) string {
	texts := make([]string, len(lengths))
	for i, l := range lengths {
		texts[i] = strconv.Itoa(l)
	}
	return strings.Join(texts, " or ")
}

// Concatenation describes one part of a concatenated short message.
type Concatenation struct {
	Reference int
	Part      int
	Total     int
}

func (c Concatenation) Info() string {
	return fmt.Sprintf("Concatenated message: reference number %d, part %d of %d parts", c.Reference, c.Part, c.Total)
}

var wellKnownPorts = map[int]string{
	5505: "Ring Tone",
	5506: "Operator Logo",
	5507: "Group Graphic - CLI Logo",
	9200: "Connectionless WAP browser proxy server",
	9202: "Secure connectionless WAP browser proxy server",
	9203: "Secure WAP Browser proxy server",
	9204: "vCard",
	9205: "vCalendar",
	9206: "Secure vCard",
	9207: "Secure vCalendar",
}

// FormattingRule styles a range of characters of the user data text, see [TP] 9.2.3.24.10.1.1.
type FormattingRule struct {
	Offset int
	Length int
	Style  []string
}

// Open returns the opening markup of this rule, empty if the rule has no style.
func (r FormattingRule) Open() string {
	if len(r.Style) == 0 {
		return ""
	}
	return `<span style="` + strings.Join(r.Style, "; ") + `">`
}

// Close returns the closing markup of this rule, empty if the rule has no style.
func (r FormattingRule) Close() string {
	if len(r.Style) == 0 {
		return ""
	}
	return "</span>"
}

var emsColors = [16]string{
	"black", "darkGray", "darkRed", "GoldenRod", "darkGreen", "darkCyan", "darkBlue", "darkMagenta",
	"gray", "white", "red", "yellow", "green", "cyan", "blue", "magenta",
}

func parseFormattingRule(e InformationElement) FormattingRule {
	result := FormattingRule{
		Offset: int(e.at(0)),
		Length: int(e.at(1)),
	}

	format := e.at(2)
	switch format & 0x03 {
	case 0x01:
		result.Style = append(result.Style, "text-align: center")
	case 0x02:
		result.Style = append(result.Style, "text-align: right")
	}
	switch format & 0x0C {
	case 0x04:
		result.Style = append(result.Style, "font-size: large")
	case 0x08:
		result.Style = append(result.Style, "font-size: small")
	}
	if format&0x20 != 0 {
		result.Style = append(result.Style, "font-style: italic")
	}
	if format&0x10 != 0 {
		result.Style = append(result.Style, "font-weight: bold")
	}
	if format&0x40 != 0 {
		result.Style = append(result.Style, "text-decoration: underline")
	}
	if format&0x80 != 0 {
		result.Style = append(result.Style, "text-decoration: line-through")
	}

	color := e.at(3)
	if color != 0 {
		if color&0x0F != 0 {
			result.Style = append(result.Style, "color: "+emsColors[color&0x0F])
		}
		result.Style = append(result.Style, "background-color: "+emsColors[color>>4])
	}

	return result
}
