package serial

import (
	"errors"
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.com/sirupsen/logrus"

	"github.com/ftl/sms-pdu/com"
)

// ErrNoModemFound is returned if no serial device looks like a GSM modem.
var ErrNoModemFound = errors.New("no GSM modem found")

// BaudRate used for the modem's AT interface.
const BaudRate = 115200

// Open opens the given port and starts an AT command session on it. The returned closer closes the port,
// which also ends the session.
func Open(portName string) (*com.COM, io.Closer, error) {
	device, err := openSerial(portName)
	if err != nil {
		return nil, nil, err
	}

	return com.New(device), device, nil
}

// OpenWithTrace opens the given port and logs all AT communication on trace level.
func OpenWithTrace(portName string, logger logrus.FieldLogger) (*com.COM, io.Closer, error) {
	device, err := openSerial(portName)
	if err != nil {
		return nil, nil, err
	}

	return com.NewWithTrace(device, logger.WithField("port", portName)), device, nil
}

func openSerial(portName string) (io.ReadWriteCloser, error) {
	portConfig := portOptions(portName)
	result, err := serial.Open(portConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot open serial port %s: %w", portName, err)
	}
	return result, nil
}

func portOptions(portName string) serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              portName,
		BaudRate:              BaudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		RTSCTSFlowControl:     false,
		MinimumReadSize:       1,
		InterCharacterTimeout: 100,
	}
}
