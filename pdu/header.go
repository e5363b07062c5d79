package pdu

import (
	"fmt"
	"strings"
)

// MessageType enum according to [TP] 9.2.3.1
type MessageType byte

// All message types the decoder distinguishes.
const (
	Deliver MessageType = iota
	Submit
	Unrecognized
)

func (t MessageType) String() string {
	switch t {
	case Deliver:
		return "SMS-DELIVER"
	case Submit:
		return "SMS-SUBMIT"
	default:
		return "unrecognized message type"
	}
}

// ValidityPeriodFormat enum according to [TP] 9.2.3.3
type ValidityPeriodFormat byte

// All validity period formats
const (
	NoValidityPeriod ValidityPeriodFormat = iota
	EnhancedValidityPeriod
	RelativeValidityPeriod
	AbsoluteValidityPeriod
)

// Octets returns the number of octets the validity period occupies in an SMS-SUBMIT PDU.
func (f ValidityPeriodFormat) Octets() int {
	switch f {
	case RelativeValidityPeriod:
		return 1
	case EnhancedValidityPeriod, AbsoluteValidityPeriod:
		return 7
	default:
		return 0
	}
}

// PDUType represents the first octet of the TPDU.
type PDUType struct {
	MessageType          MessageType
	UDHI                 bool
	ValidityPeriodFormat ValidityPeriodFormat
	Flags                []string
}

// ParsePDUType parses the first octet of the TPDU according to [TP] 9.2.2.1 (SMS-DELIVER) and
// 9.2.2.2 (SMS-SUBMIT).
func ParsePDUType(o byte) PDUType {
	var result PDUType
	result.Flags = make([]string, 0)

	switch o & 0x03 {
	case 0x00:
		result.MessageType = Deliver
	case 0x01:
		result.MessageType = Submit
	default:
		result.MessageType = Unrecognized
		return result
	}

	if o&0x80 != 0 {
		result.Flags = append(result.Flags, "TP-RP (Reply path exists)")
	}
	if o&0x40 != 0 {
		result.UDHI = true
		result.Flags = append(result.Flags, "TP-UDHI (User data header indicator)")
	}

	switch result.MessageType {
	case Submit:
		if o&0x20 != 0 {
			result.Flags = append(result.Flags, "TP-SRR (Status report request)")
		}
		const vpfText = "TP-VPF (Validity Period Format): "
		switch o & 0x18 {
		case 0x08:
			result.ValidityPeriodFormat = EnhancedValidityPeriod
			result.Flags = append(result.Flags, vpfText+"enhanced format")
		case 0x10:
			result.ValidityPeriodFormat = RelativeValidityPeriod
			result.Flags = append(result.Flags, vpfText+"relative format")
		case 0x18:
			result.ValidityPeriodFormat = AbsoluteValidityPeriod
			result.Flags = append(result.Flags, vpfText+"absolute format")
		}
		if o&0x04 == 0 {
			result.Flags = append(result.Flags, "TP-RD (Reject duplicates)")
		}
	case Deliver:
		if o&0x20 != 0 {
			result.Flags = append(result.Flags, "TP-SRI (Status report indication)")
		}
		if o&0x04 == 0 {
			result.Flags = append(result.Flags, "TP-MMS (More messages to send)")
		}
	}

	return result
}

// Info describes the PDU type and its flags.
func (t PDUType) Info() string {
	if t.MessageType == Unrecognized {
		return "Unrecognized message type (neither SMS-DELIVER nor SMS-SUBMIT), decoding stopped"
	}
	result := t.MessageType.String()
	if len(t.Flags) > 0 {
		result += ", Flags: " + strings.Join(t.Flags, ", ")
	}
	return result
}

// ProtocolIdentifier according to [TP] 9.2.3.9
type ProtocolIdentifier byte

var telematicDevices = map[byte]string{
	0x00: "implicit",
	0x01: "telex",
	0x02: "group 3 telefax",
	0x03: "group 4 telefax",
	0x04: "voice telephone - speech conversion",
	0x05: "ERMES - European Radio Messaging System",
	0x06: "National Paging System",
	0x07: "Videotex - T.100/T.101",
	0x08: "teletex, carrier unspecified",
	0x09: "teletex, in PSPDN",
	0x0A: "teletex, in CSPDN",
	0x0B: "teletex, in analog PSTN",
	0x0C: "teletex, in digital ISDN",
	0x0D: "UCI - Universal Computer Interface, ETSI DE/PS 3 01-3",
	0x10: "message handling facility known to the SC",
	0x11: "public X.400-based message handling system",
	0x12: "Internet E-Mail",
	0x1F: "GSM mobile station",
}

var shortMessageTypes = map[byte]string{
	0x1F: "Return Call Message",
	0x3D: "ME Data download",
	0x3E: "ME De-personalization Short Message",
	0x3F: "SIM Data download",
}

// Info describes the protocol identifier.
func (p ProtocolIdentifier) Info() string {
	o := byte(p)
	switch o & 0xC0 {
	case 0x00:
		firstFive := o & 0x1F
		if o&0x20 == 0 {
			if firstFive == 0 {
				return "SME-to-SME protocol"
			}
			return fmt.Sprintf("SME-to-SME protocol (Unknown bitmask: %b - in case of SMS-DELIVER these indicate the SM-AL protocol being used between the SME and the MS!)", firstFive)
		}
		device, ok := telematicDevices[firstFive]
		switch {
		case ok:
		case firstFive >= 0x18 && firstFive <= 0x1E:
			device = "SC specific value"
		default:
			device = "reserved"
		}
		return "Telematic interworking (Type: " + device + ")"
	case 0x40:
		firstSix := o & 0x3F
		if firstSix <= 7 {
			return fmt.Sprintf("Short Message Type %d", firstSix)
		}
		text, ok := shortMessageTypes[firstSix]
		if !ok {
			return "reserved"
		}
		return text
	case 0x80:
		return "reserved"
	default:
		return "SC specific use"
	}
}

// Alphabet enum according to [DCS] 4
type Alphabet byte

// All alphabets
const (
	Default7Bit Alphabet = iota
	EightBit
	UCS2
	ReservedAlphabet
)

func (a Alphabet) String() string {
	switch a {
	case Default7Bit:
		return "default alphabet"
	case EightBit:
		return "8 bit data"
	case UCS2:
		return "UCS2 (16 bit)"
	default:
		return "reserved alphabet"
	}
}

// NoMessageClass is used as DataCodingScheme.MessageClass if no message class is set.
const NoMessageClass = -1

// DataCodingScheme according to [DCS] 4
type DataCodingScheme struct {
	Alphabet     Alphabet
	MessageClass int
	Compressed   bool
	Violation    bool
	Info         string
}

var messageClasses = []string{
	"immediate display",
	"ME specific",
	"SIM specific",
	"TE specific",
}

var indicationTypes = []string{
	"Voicemail Message Waiting",
	"Fax Message Waiting",
	"E-Mail Message Waiting",
	"Other Message Waiting (not yet standardized)",
}

// ParseDataCodingScheme parses the data coding scheme octet.
func ParseDataCodingScheme(o byte) DataCodingScheme {
	result := DataCodingScheme{
		Alphabet:     Default7Bit,
		MessageClass: NoMessageClass,
	}
	var info strings.Builder
	codingGroup := o & 0xF0
	messageClass := int(o & 0x03)
	classText := fmt.Sprintf("Class %d - %s", messageClass, messageClasses[messageClass])

	switch {
	case codingGroup <= 0x30:
		info.WriteString("General Data Coding groups, ")
		result.Compressed = o&0x20 != 0
		if result.Compressed {
			info.WriteString("compressed")
		} else {
			info.WriteString("uncompressed")
		}
		switch o & 0x0C {
		case 0x04:
			result.Alphabet = EightBit
		case 0x08:
			result.Alphabet = UCS2
		case 0x0C:
			result.Alphabet = ReservedAlphabet
		}
		info.WriteString(", " + result.Alphabet.String() + ", ")
		if o&0x10 == 0 {
			info.WriteString("no message class set (but given bits would be: " + classText + ")")
		} else {
			result.MessageClass = messageClass
			info.WriteString(classText)
		}
	case codingGroup <= 0xB0:
		info.WriteString("Reserved coding groups")
	case codingGroup <= 0xE0:
		switch codingGroup {
		case 0xC0:
			info.WriteString("Message Waiting Indication Group: Discard Message, ")
		case 0xD0:
			info.WriteString("Message Waiting Indication Group: Store Message, standard encoding, ")
		case 0xE0:
			result.Alphabet = UCS2
			info.WriteString("Message Waiting Indication Group: Store Message, UCS2 encoding, ")
		}
		if o&0x08 != 0 {
			info.WriteString("Set Indication Active, ")
		} else {
			info.WriteString("Set Indication Inactive, ")
		}
		if o&0x04 != 0 {
			result.Violation = true
			info.WriteString("(VIOLATION: reserved bit set, but should not!), ")
		}
		info.WriteString(indicationTypes[o&0x03])
	default:
		info.WriteString("Data coding/message class, ")
		if o&0x08 != 0 {
			result.Violation = true
			info.WriteString("(VIOLATION: reserved bit set, but should not!), ")
		}
		if o&0x04 != 0 {
			result.Alphabet = EightBit
			info.WriteString("8 bit data, ")
		} else {
			info.WriteString("Default alphabet, ")
		}
		result.MessageClass = messageClass
		info.WriteString(classText)
	}

	result.Info = info.String()
	return result
}
