package pdu

import (
	"context"
	"time"

	"github.com/ftl/sms-pdu/gsm"
)

// ErrInvalidPDUFormat is returned if the PDU string is not a sequence of hex octets.
var ErrInvalidPDUFormat = gsm.ErrInvalidPDUFormat

// Decode decodes the given PDU hex string without a WBXML decoder.
func Decode(pduHex string) (Fields, error) {
	return NewDecoder().Decode(context.Background(), pduHex)
}

// Decoder decodes SMS-DELIVER and SMS-SUBMIT PDUs. A Decoder holds no state between calls and
// can be used concurrently if its WBXMLDecoder can be used concurrently.
type Decoder struct {
	wbxml        WBXMLDecoder
	wbxmlTimeout time.Duration
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithWBXMLDecoder sets the decoder for WAP binary XML bodies of WAP push messages.
func WithWBXMLDecoder(decoder WBXMLDecoder) Option {
	return func(d *Decoder) {
		d.wbxml = decoder
	}
}

// WithWBXMLTimeout limits the time for decoding one WBXML body.
func WithWBXMLTimeout(timeout time.Duration) Option {
	return func(d *Decoder) {
		d.wbxmlTimeout = timeout
	}
}

func NewDecoder(opts ...Option) *Decoder {
	result := &Decoder{
		wbxmlTimeout: DefaultWBXMLTimeout,
	}
	for _, opt := range opts {
		opt(result)
	}
	return result
}

// Decode decodes the given PDU hex string. An error is only returned if the string is not a valid
// sequence of hex octets, all other problems are reported as fields marked as violation.
func (d *Decoder) Decode(ctx context.Context, pduHex string) (Fields, error) {
	octets, err := gsm.SplitOctets(pduHex)
	if err != nil {
		return nil, err
	}
	return d.DecodeOctets(ctx, octets), nil
}

// DecodeOctets decodes the given PDU octets, starting with the SMSC information.
func (d *Decoder) DecodeOctets(ctx context.Context, octets []byte) Fields {
	w := &walker{
		octets: octets,
		fields: make(Fields, 0, 16),
	}

	w.smsc()
	if w.pos >= len(w.octets) {
		w.reportEnd(LabelPDUType)
		return w.fields
	}
	pduType := ParsePDUType(w.octet(LabelPDUType))
	w.add(LabelPDUType, pduType.Info(), true, false)

	var dcs DataCodingScheme
	switch pduType.MessageType {
	case Deliver:
		w.address()
		dcs = w.protocolFields()
		w.add(LabelServiceCentreTime, DecodeTimestamp(w.slice(LabelServiceCentreTime, TimestampOctets)), true, false)
	case Submit:
		w.add(LabelMessageReference, DecodeMessageReference(w.octet(LabelMessageReference)), true, false)
		w.address()
		dcs = w.protocolFields()
		w.validityPeriod(pduType.ValidityPeriodFormat)
	default:
		return w.fields
	}

	w.userData(ctx, pduType, dcs, d)

	return w.fields
}

// walker moves a cursor over the PDU octets and collects the decoded fields.
type walker struct {
	octets    []byte
	pos       int
	fields    Fields
	truncated bool
}

func (w *walker) add(label, value string, hideable, violation bool) {
	w.fields = append(w.fields, Field{Label: label, Value: value, Hideable: hideable, Violation: violation})
}

func (w *walker) violation(text string) {
	w.add(LabelViolation, text, false, true)
}

// reportEnd reports once that the PDU ended before the given field could be read.
func (w *walker) reportEnd(name string) {
	if w.truncated {
		return
	}
	w.truncated = true
	w.violation("PDU ends before " + name)
}

// octet reads the octet at the cursor. Missing octets read as 0x00.
func (w *walker) octet(name string) byte {
	pos := w.pos
	w.pos++
	if pos >= len(w.octets) {
		w.reportEnd(name)
		return 0
	}
	return w.octets[pos]
}

// slice reads the next n octets. The result is shorter if the PDU ends before.
func (w *walker) slice(name string, n int) []byte {
	start := clamp(w.pos, len(w.octets))
	end := clamp(w.pos+n, len(w.octets))
	w.pos += n
	if end-start < n {
		w.reportEnd(name)
	}
	return w.octets[start:end]
}

func (w *walker) smsc() {
	length := int(w.octet("SMSC length"))
	if length == 0 {
		return
	}

	toa := TypeOfAddress(w.octet(LabelSMSCNumberInfo))
	number, violation := DecodeNumber(w.slice(LabelSMSCNumber, length-1), 0)
	w.add(LabelSMSCNumber, number, true, violation)
	w.add(LabelSMSCNumberInfo, toa.Info(), true, !toa.Valid())
}

// address reads the originator or destination address. The length is the number of digits.
func (w *walker) address() {
	length := int(w.octet("Number length"))
	if length == 0 {
		return
	}

	toa := TypeOfAddress(w.octet(LabelNumberInfo))
	octets := w.slice(LabelNumber, (length+1)/2)
	if toa.TypeOfNumber() == AlphanumericNumber {
		w.add(LabelNumber, DecodeAlphanumericAddress(octets, length), true, false)
	} else {
		number, violation := DecodeNumber(octets, length)
		w.add(LabelNumber, number, true, violation)
	}
	w.add(LabelNumberInfo, toa.Info(), true, !toa.Valid())
}

func (w *walker) protocolFields() DataCodingScheme {
	pid := ProtocolIdentifier(w.octet(LabelProtocolIdentifier))
	w.add(LabelProtocolIdentifier, pid.Info(), true, false)

	dcs := ParseDataCodingScheme(w.octet(LabelDataCodingScheme))
	w.add(LabelDataCodingScheme, dcs.Info, true, dcs.Violation)
	return dcs
}

func (w *walker) validityPeriod(format ValidityPeriodFormat) {
	switch format {
	case RelativeValidityPeriod:
		w.add(LabelValidityPeriod, DecodeRelativeValidityPeriod(w.octet(LabelValidityPeriod)), true, false)
	case AbsoluteValidityPeriod:
		w.add(LabelValidityPeriod, "until "+DecodeTimestamp(w.slice(LabelValidityPeriod, format.Octets())), true, false)
	case EnhancedValidityPeriod:
		w.add(LabelValidityPeriod, DecodeEnhancedValidityPeriod(w.slice(LabelValidityPeriod, format.Octets())), true, false)
	}
}

func (w *walker) userData(ctx context.Context, pduType PDUType, dcs DataCodingScheme, d *Decoder) {
	udl := ParseUserDataLength(w.octet(LabelUserDataLength), dcs.Alphabet)
	w.add(LabelUserDataLength, udl.Info(dcs.Alphabet), false, false)

	var headerLength HeaderLength
	var header UserDataHeader
	headerOctets := 0
	septets := udl.Count
	if pduType.UDHI {
		headerLength = ParseHeaderLength(w.octet(LabelUserDataHeaderLength), dcs.Alphabet)
		w.add(LabelUserDataHeaderLength, headerLength.Info(), false, false)

		header = ParseUserDataHeader(w.slice(LabelUserDataHeader, headerLength.Length))
		w.add(LabelUserDataHeader, header.Info, false, header.Violation)

		headerOctets = headerLength.Octets()
		septets -= headerLength.Septets()
		if septets < 0 {
			septets = 0
		}
	}
	limit := -1
	if dcs.Alphabet == Default7Bit {
		limit = septets
	}

	start := clamp(w.pos, len(w.octets))
	expectedEnd := w.pos + udl.Octets - headerOctets
	if expectedEnd < w.pos {
		expectedEnd = w.pos
	}
	message := w.octets[start:clamp(expectedEnd, len(w.octets))]

	if header.WAPDatagram {
		w.fields = append(w.fields, DecodeWAPPush(ctx, message, d.wbxml, d.wbxmlTimeout)...)
		return
	}

	w.add(LabelUserData, DecodeUserData(message, dcs.Alphabet, headerLength.Padding, limit, header.Formatting), false, false)
	switch {
	case expectedEnd < len(w.octets):
		w.violation("PDU longer than expected!")
		all := w.octets[start:]
		w.add(LabelUserDataWithTrailing, DecodeUserData(all, dcs.Alphabet, headerLength.Padding, -1, header.Formatting), false, false)
	case expectedEnd > len(w.octets) && !w.truncated:
		w.violation("PDU shorter than expected!")
	}
}
