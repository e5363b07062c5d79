package pdu

// Field is one labeled piece of information decoded from a PDU.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// Hideable fields carry header details that are not essential for reading the message.
	Hideable bool `json:"hideable"`
	// Violation marks fields that report a deviation from the standard.
	Violation bool `json:"violation"`
}

// Fields is the ordered result of decoding a PDU.
type Fields []Field

// Violations returns all fields that are marked as violation.
func (f Fields) Violations() Fields {
	result := make(Fields, 0)
	for _, field := range f {
		if field.Violation {
			result = append(result, field)
		}
	}
	return result
}

// Lookup returns the first field with the given label.
func (f Fields) Lookup(label string) (Field, bool) {
	for _, field := range f {
		if field.Label == label {
			return field, true
		}
	}
	return Field{}, false
}

// The labels used for the decoded fields.
const (
	LabelSMSCNumber            = "SMSC number"
	LabelSMSCNumberInfo        = "SMSC number info"
	LabelPDUType               = "PDU Type"
	LabelMessageReference      = "TP Message Reference"
	LabelNumber                = "Number"
	LabelNumberInfo            = "Number info"
	LabelProtocolIdentifier    = "Protocol Identifier"
	LabelDataCodingScheme      = "Data Coding Scheme"
	LabelServiceCentreTime     = "Service Centre Time Stamp"
	LabelValidityPeriod        = "Validity Period"
	LabelUserDataLength        = "User Data Length"
	LabelUserDataHeaderLength  = "User Data Header Length"
	LabelUserDataHeader        = "User Data Header"
	LabelUserData              = "User Data"
	LabelUserDataWithTrailing  = "User Data with trailing octets"
	LabelViolation             = "VIOLATION"
	LabelWSPTransactionID      = "WSP Transaction ID"
	LabelWSPType               = "WSP Type"
	LabelWirelessSessionHeader = "Wireless Session Protocol"
	LabelWAPBinaryXML          = "WAP Binary XML"
)
