/*
The package modem reads SMS PDUs from a GSM modem using the AT commands according to:
  [AT] 3GPP TS 27.005, Use of Data Terminal Equipment - Data Circuit terminating Equipment (DTE - DCE) interface for SMS

Only the PDU mode is used, the PDUs are decoded with the package pdu.
*/
package modem

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageStatus enum according to [AT] 3.1 <stat>
type MessageStatus int

// All message status values in PDU mode.
const (
	ReceivedUnread MessageStatus = iota
	ReceivedRead
	StoredUnsent
	StoredSent
	AllMessages
)

var messageStatusNames = map[MessageStatus]string{
	ReceivedUnread: "REC UNREAD",
	ReceivedRead:   "REC READ",
	StoredUnsent:   "STO UNSENT",
	StoredSent:     "STO SENT",
	AllMessages:    "ALL",
}

func (s MessageStatus) String() string {
	name, ok := messageStatusNames[s]
	if !ok {
		return fmt.Sprintf("unknown status %d", int(s))
	}
	return name
}

// ParseMessageStatus parses the text mode name or the PDU mode number of a message status.
func ParseMessageStatus(s string) (MessageStatus, error) {
	sanitized := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range messageStatusNames {
		if sanitized == name || sanitized == strconv.Itoa(int(status)) {
			return status, nil
		}
	}
	return 0, fmt.Errorf("invalid message status %s", s)
}

// StoredMessage is a message PDU as reported by the modem.
type StoredMessage struct {
	// Index is the storage location, -1 for messages that are routed directly to the terminal.
	Index  int
	Status MessageStatus
	Alpha  string
	// Length is the length of the TPDU in octets, without the SMSC information.
	Length int
	PDU    string
}

// TPDULengthMatches indicates if the length reported by the modem matches the PDU.
func (m StoredMessage) TPDULengthMatches() bool {
	if len(m.PDU) < 2 {
		return false
	}
	smscLength, err := strconv.ParseUint(m.PDU[0:2], 16, 8)
	if err != nil {
		return false
	}
	return len(m.PDU)/2-int(smscLength)-1 == m.Length
}
