package serial

import (
	"testing"

	"github.com/jacobsa/go-serial/serial"
	"github.com/stretchr/testify/assert"
)

func TestIsModemDescription(t *testing.T) {
	tt := []struct {
		description string
		expected    bool
	}{
		{"Quectel_EC25", true},
		{"HUAWEI_Mobile", true},
		{"SimTech__Incorporated_SimCom_SIM7600", true},
		{"Sierra_Wireless__Incorporated_MC7455", true},
		{"USB2.0-Serial_Modem", true},
		{"FTDI_FT232R_USB_UART", false},
		{"", false},
	}
	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, isModemDescription(tc.description))
		})
	}
}

func TestPortOptions(t *testing.T) {
	actual := portOptions("/dev/ttyUSB2")

	assert.Equal(t, "/dev/ttyUSB2", actual.PortName)
	assert.Equal(t, uint(BaudRate), actual.BaudRate)
	assert.Equal(t, uint(8), actual.DataBits)
	assert.Equal(t, uint(1), actual.StopBits)
	assert.Equal(t, serial.PARITY_NONE, actual.ParityMode)
}

func TestOpen_InvalidPort(t *testing.T) {
	_, _, err := Open("/dev/this-port-does-not-exist")

	assert.Error(t, err)
}
