package modem

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sms-pdu/gsm"
)

const helloPDU = "07917283010010F5040BC87238880900F10000993092516195800AE8329BFD4697D9EC37"

func respondWith(expectedRequest string, lines ...string) gsm.RequesterFunc {
	return func(_ context.Context, request string) ([]string, error) {
		if request != expectedRequest {
			return nil, errors.New("ERROR")
		}
		return lines, nil
	}
}

func TestSelectStorage(t *testing.T) {
	assert.Equal(t, `AT+CPMS="SM"`, SelectStorage("sm"))
	assert.Equal(t, `AT+CPMS="ME"`, SelectStorage("ME"))
}

func TestListMessages(t *testing.T) {
	tt := []struct {
		desc     string
		status   MessageStatus
		request  string
		lines    []string
		expected []StoredMessage
		invalid  bool
	}{
		{
			desc:     "empty",
			status:   AllMessages,
			request:  "AT+CMGL=4",
			lines:    []string{},
			expected: []StoredMessage{},
		},
		{
			desc:    "two messages",
			status:  AllMessages,
			request: "AT+CMGL=4",
			lines: []string{
				"+CMGL: 1,1,,28",
				helloPDU,
				`+CMGL: 4,0,"Alice",28`,
				helloPDU,
			},
			expected: []StoredMessage{
				{Index: 1, Status: ReceivedRead, Length: 28, PDU: helloPDU},
				{Index: 4, Status: ReceivedUnread, Alpha: "Alice", Length: 28, PDU: helloPDU},
			},
		},
		{
			desc:    "unread only",
			status:  ReceivedUnread,
			request: "AT+CMGL=0",
			lines: []string{
				"+CMGL: 2,0,,28",
				helloPDU,
			},
			expected: []StoredMessage{
				{Index: 2, Status: ReceivedUnread, Length: 28, PDU: helloPDU},
			},
		},
		{
			desc:    "missing PDU",
			status:  AllMessages,
			request: "AT+CMGL=4",
			lines:   []string{"+CMGL: 1,1,,28"},
			invalid: true,
		},
		{
			desc:    "unexpected line",
			status:  AllMessages,
			request: "AT+CMGL=4",
			lines:   []string{"+CMGR: 1,,28", helloPDU},
			invalid: true,
		},
		{
			desc:    "error",
			status:  StoredSent,
			request: "AT+CMGL=4",
			invalid: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := ListMessages(context.Background(), respondWith(tc.request, tc.lines...), tc.status)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestReadMessage(t *testing.T) {
	requester := respondWith("AT+CMGR=3", "+CMGR: 1,,28", helloPDU)

	actual, err := ReadMessage(context.Background(), requester, 3)

	require.NoError(t, err)
	assert.Equal(t, StoredMessage{Index: 3, Status: ReceivedRead, Length: 28, PDU: helloPDU}, actual)

	_, err = ReadMessage(context.Background(), respondWith("AT+CMGR=5"), 5)
	assert.Error(t, err)
}

func TestParseNewMessageIndication(t *testing.T) {
	tt := []struct {
		desc     string
		lines    []string
		expected StoredMessage
		invalid  bool
	}{
		{
			desc:     "without alpha",
			lines:    []string{"+CMT: ,28", helloPDU},
			expected: StoredMessage{Index: -1, Status: ReceivedUnread, Length: 28, PDU: helloPDU},
		},
		{
			desc:     "with alpha",
			lines:    []string{`+CMT: "Bob",28`, helloPDU + " "},
			expected: StoredMessage{Index: -1, Status: ReceivedUnread, Alpha: "Bob", Length: 28, PDU: helloPDU},
		},
		{
			desc:    "missing PDU",
			lines:   []string{"+CMT: ,28"},
			invalid: true,
		},
		{
			desc:    "wrong indication",
			lines:   []string{`+CMTI: "SM",2`, ""},
			invalid: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := ParseNewMessageIndication(tc.lines)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestMessageStatus(t *testing.T) {
	tt := []struct {
		value    string
		expected MessageStatus
		invalid  bool
	}{
		{"REC UNREAD", ReceivedUnread, false},
		{"rec read", ReceivedRead, false},
		{"2", StoredUnsent, false},
		{" STO SENT ", StoredSent, false},
		{"all", AllMessages, false},
		{"5", 0, true},
		{"unread", 0, true},
	}
	for _, tc := range tt {
		t.Run(tc.value, func(t *testing.T) {
			actual, err := ParseMessageStatus(tc.value)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
	assert.Equal(t, "STO UNSENT", StoredUnsent.String())
	assert.Equal(t, "unknown status 7", MessageStatus(7).String())
}

func TestStoredMessage_TPDULengthMatches(t *testing.T) {
	assert.True(t, StoredMessage{Length: 28, PDU: helloPDU}.TPDULengthMatches())
	assert.False(t, StoredMessage{Length: 27, PDU: helloPDU}.TPDULengthMatches())
	assert.False(t, StoredMessage{Length: 0, PDU: "Z"}.TPDULengthMatches())
}
