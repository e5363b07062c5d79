package modem

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sms-pdu/com"
)

func TestWatch(t *testing.T) {
	device := com.NewInMemory()
	defer device.Close()
	device.Expect(SetPDUMode, "OK\r\n")
	device.Expect(EnableNewMessageIndications, "OK\r\n")
	modem := com.New(device)
	logger, hook := logtest.NewNullLogger()
	messages := make(chan StoredMessage, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, Prepare(ctx, modem))
	require.NoError(t, Watch(ctx, modem, logger, func(message StoredMessage) {
		messages <- message
	}))

	device.PrepareRead([]byte("+CMT: ,28\r\n" + helloPDU + "\r\n"))

	select {
	case message := <-messages:
		assert.Equal(t, StoredMessage{Index: -1, Status: ReceivedUnread, Length: 28, PDU: helloPDU}, message)
	case <-ctx.Done():
		t.Fatal("no message received")
	}
	assert.Empty(t, hook.AllEntries())
	assert.Equal(t, "AT+CMGF=0\r\nAT+CNMI=2,2,0,0,0\r\n", string(device.Written()))
}

func TestWatch_EnableFails(t *testing.T) {
	device := com.NewInMemory()
	defer device.Close()
	device.Expect(EnableNewMessageIndications, "+CMS ERROR: 303\r\n")
	modem := com.New(device)
	logger, _ := logtest.NewNullLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := Watch(ctx, modem, logger, func(StoredMessage) {})

	assert.EqualError(t, err, "cannot enable new message indications: +CMS ERROR: 303")
}
