package serial

import "strings"

// modemDescriptions are parts of USB device descriptions of common GSM/LTE modems.
var modemDescriptions = []string{
	"modem",
	"gsm",
	"huawei",
	"quectel",
	"simcom",
	"sierra",
	"telit",
	"u-blox",
	"zte",
}

func isModemDescription(description string) bool {
	description = strings.ToLower(description)
	for _, part := range modemDescriptions {
		if strings.Contains(description, part) {
			return true
		}
	}
	return false
}
