package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sms-pdu/pdu"
)

var testFields = pdu.Fields{
	{Label: pdu.LabelPDUType, Value: "SMS-DELIVER", Hideable: true},
	{Label: pdu.LabelNumber, Value: "+49123"},
	{Label: pdu.LabelUserData, Value: "line one\nline two"},
	{Label: pdu.LabelViolation, Value: "PDU longer than expected!", Violation: true},
}

func TestTable(t *testing.T) {
	tt := []struct {
		desc     string
		opts     Options
		expected string
	}{
		{
			desc: "all fields",
			opts: Options{NoColor: true},
			expected: "PDU Type   SMS-DELIVER\n" +
				"Number     +49123\n" +
				"User Data  line one⏎line two\n" +
				"VIOLATION  PDU longer than expected!\n",
		},
		{
			desc: "brief",
			opts: Options{NoColor: true, Brief: true},
			expected: "Number     +49123\n" +
				"User Data  line one⏎line two\n" +
				"VIOLATION  PDU longer than expected!\n",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			buffer := &bytes.Buffer{}
			err := Table(buffer, testFields, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, buffer.String())
		})
	}
}

func TestTable_Color(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := Table(buffer, testFields[3:], Options{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "\x1b[1mVIOLATION\x1b[0m")
	assert.Contains(t, lines[0], "\x1b[31;1mPDU longer than expected!\x1b[0m")
}

func TestJSON(t *testing.T) {
	tt := []struct {
		desc     string
		pretty   bool
		opts     Options
		expected int
	}{
		{desc: "plain", expected: 4},
		{desc: "plain brief", opts: Options{Brief: true}, expected: 3},
		{desc: "pretty without color", pretty: true, opts: Options{NoColor: true}, expected: 4},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			buffer := &bytes.Buffer{}
			err := JSON(buffer, testFields, tc.pretty, tc.opts)
			require.NoError(t, err)

			var actual pdu.Fields
			require.NoError(t, json.Unmarshal(buffer.Bytes(), &actual))
			assert.Len(t, actual, tc.expected)
			assert.Equal(t, testFields[len(testFields)-1], actual[len(actual)-1])
		})
	}
}

func TestJSON_PlainIsSingleLine(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := JSON(buffer, testFields[:1], false, Options{})
	require.NoError(t, err)
	assert.Equal(t, `[{"label":"PDU Type","value":"SMS-DELIVER","hideable":true,"violation":false}]`+"\n", buffer.String())
}
