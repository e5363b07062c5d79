package modem

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ftl/sms-pdu/gsm"
)

const (
	// SetPDUMode selects the PDU mode for all message commands according to [AT] 3.2.3
	SetPDUMode = "AT+CMGF=0"
	// EnableNewMessageIndications lets the modem route new messages directly to the terminal with +CMT according to [AT] 3.4.1
	EnableNewMessageIndications = "AT+CNMI=2,2,0,0,0"
	// NewMessageIndication is the prefix of the unsolicited result code for directly routed messages.
	NewMessageIndication = "+CMT:"
)

// SelectStorage selects the preferred message storage for reading and deleting according to [AT] 3.2.2
func SelectStorage(mem string) string {
	return fmt.Sprintf(`AT+CPMS="%s"`, strings.ToUpper(mem))
}

var (
	listMessagesResponse = regexp.MustCompile(`^\+CMGL:\s*(\d+),(\d+),([^,]*),(\d+)$`)
	readMessageResponse  = regexp.MustCompile(`^\+CMGR:\s*(\d+),([^,]*),(\d+)$`)
	newMessageIndication = regexp.MustCompile(`^\+CMT:\s*([^,]*),(\d+)$`)
)

// ListMessages lists all messages with the given status from the current storage according to [AT] 3.4.2
func ListMessages(ctx context.Context, requester gsm.Requester, status MessageStatus) ([]StoredMessage, error) {
	responses, err := requester.Request(ctx, fmt.Sprintf("AT+CMGL=%d", status))
	if err != nil {
		return nil, err
	}

	result := make([]StoredMessage, 0, len(responses)/2)
	for i := 0; i < len(responses); i++ {
		header := strings.TrimSpace(responses[i])
		if header == "" {
			continue
		}
		parts := listMessagesResponse.FindStringSubmatch(header)
		if len(parts) != 5 {
			return nil, fmt.Errorf("unexpected response: %s", responses[i])
		}
		if i+1 >= len(responses) {
			return nil, fmt.Errorf("missing PDU for %s", responses[i])
		}
		i++

		var message StoredMessage
		message.Index, _ = strconv.Atoi(parts[1])
		messageStatus, _ := strconv.Atoi(parts[2])
		message.Status = MessageStatus(messageStatus)
		message.Alpha = unquote(parts[3])
		message.Length, _ = strconv.Atoi(parts[4])
		message.PDU = strings.TrimSpace(responses[i])
		result = append(result, message)
	}

	return result, nil
}

// ReadMessage reads the message at the given index from the current storage according to [AT] 3.4.3
func ReadMessage(ctx context.Context, requester gsm.Requester, index int) (StoredMessage, error) {
	responses, err := requester.Request(ctx, fmt.Sprintf("AT+CMGR=%d", index))
	if err != nil {
		return StoredMessage{}, err
	}
	if len(responses) < 2 {
		return StoredMessage{}, fmt.Errorf("no message received at index %d", index)
	}
	response := strings.TrimSpace(responses[0])
	parts := readMessageResponse.FindStringSubmatch(response)
	if len(parts) != 4 {
		return StoredMessage{}, fmt.Errorf("unexpected response: %s", responses[0])
	}

	result := StoredMessage{Index: index}
	messageStatus, _ := strconv.Atoi(parts[1])
	result.Status = MessageStatus(messageStatus)
	result.Alpha = unquote(parts[2])
	result.Length, _ = strconv.Atoi(parts[3])
	result.PDU = strings.TrimSpace(responses[1])

	return result, nil
}

// ParseNewMessageIndication parses the lines of a +CMT unsolicited result code according to [AT] 3.4.1
func ParseNewMessageIndication(lines []string) (StoredMessage, error) {
	if len(lines) != 2 {
		return StoredMessage{}, fmt.Errorf("new message indication needs 2 lines, got %d", len(lines))
	}
	header := strings.TrimSpace(lines[0])
	parts := newMessageIndication.FindStringSubmatch(header)
	if len(parts) != 3 {
		return StoredMessage{}, fmt.Errorf("invalid new message indication: %s", lines[0])
	}

	result := StoredMessage{
		Index:  -1,
		Status: ReceivedUnread,
		Alpha:  unquote(parts[1]),
		PDU:    strings.TrimSpace(lines[1]),
	}
	result.Length, _ = strconv.Atoi(parts[2])

	return result, nil
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
