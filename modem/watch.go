package modem

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ftl/sms-pdu/gsm"
)

// Indicator dispatches unsolicited result codes, see com.COM.
type Indicator interface {
	AddIndication(prefix string, trailingLines int, handler func(lines []string)) error
}

// Modem combines the request and the indication side of an AT command interface.
type Modem interface {
	gsm.Requester
	Indicator
}

// Prepare switches the modem into PDU mode.
func Prepare(ctx context.Context, requester gsm.Requester) error {
	_, err := requester.Request(ctx, SetPDUMode)
	if err != nil {
		return fmt.Errorf("cannot switch to PDU mode: %w", err)
	}
	return nil
}

// Watch enables the direct routing of new messages and calls the handler for each new message.
// Indications that cannot be parsed are logged and dropped. The handler is called for one message at a time.
func Watch(ctx context.Context, modem Modem, logger logrus.FieldLogger, handler func(StoredMessage)) error {
	err := modem.AddIndication(NewMessageIndication, 1, func(lines []string) {
		message, err := ParseNewMessageIndication(lines)
		if err != nil {
			logger.WithError(err).Warn("dropping new message indication")
			return
		}
		handler(message)
	})
	if err != nil {
		return err
	}

	_, err = modem.Request(ctx, EnableNewMessageIndications)
	if err != nil {
		return fmt.Errorf("cannot enable new message indications: %w", err)
	}
	return nil
}
