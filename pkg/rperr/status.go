// Package rperr describes the status codes returned by the RedPitaya rp
// library and the error raised when a wrapped call does not return RP_OK.
package rperr

import "fmt"

// StatusCode mirrors the RP_* return codes defined in rp.h.
type StatusCode int

const (
	OK StatusCode = iota
	EOED
	EOMD
	ECMD
	EMMD
	EUMD
	EOOR
	ELID
	EMRO
	EWIP
	EPN
	UIA
	FCA
	RCA
	BTS
	EIPV
	EUF
	ENN
	EFOB
	EFCB
	EABA
	EFRB
	EFWB
	EMNC
	NOTS
)

type statusInfo struct {
	name    string
	message string
}

var statusTable = []statusInfo{
	OK:   {"OK", "Success"},
	EOED: {"EOED", "Failed to Open EEPROM Device"},
	EOMD: {"EOMD", "Failed to Open Memory Device"},
	ECMD: {"ECMD", "Failed to Close Memory Device"},
	EMMD: {"EMMD", "Failed to Map Memory Device"},
	EUMD: {"EUMD", "Failed to Unmap Memory Device"},
	EOOR: {"EOOR", "Value Out Of Range"},
	ELID: {"ELID", "LED Input Direction is not valid"},
	EMRO: {"EMRO", "Modifying Read Only field"},
	EWIP: {"EWIP", "Writing to Input Pin is not valid"},
	EPN:  {"EPN", "Invalid Pin number"},
	UIA:  {"UIA", "Uninitialized Input Argument"},
	FCA:  {"FCA", "Failed to Find Calibration Parameters"},
	RCA:  {"RCA", "Failed to Read Calibration Parameters"},
	BTS:  {"BTS", "Buffer too small"},
	EIPV: {"EIPV", "Invalid parameter value"},
	EUF:  {"EUF", "Unsupported Feature"},
	ENN:  {"ENN", "Data not normalized"},
	EFOB: {"EFOB", "Failed to open bus"},
	EFCB: {"EFCB", "Failed to close bus"},
	EABA: {"EABA", "Failed to acquire bus access"},
	EFRB: {"EFRB", "Failed to read from the bus"},
	EFWB: {"EFWB", "Failed to write to the bus"},
	EMNC: {"EMNC", "Extension module not connected"},
	NOTS: {"NOTS", "Command not supported"},
}

// Valid reports whether c is one of the codes known to rp.h.
func (c StatusCode) Valid() bool {
	return c >= 0 && int(c) < len(statusTable)
}

// Name returns the identifier without the RP_ prefix ("EOOR").
func (c StatusCode) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("StatusCode(%d)", int(c))
	}
	return statusTable[c].name
}

// Constant returns the rp binding constant backing the code ("RP_EOOR").
func (c StatusCode) Constant() string {
	return "RP_" + c.Name()
}

// String implements fmt.Stringer.
func (c StatusCode) String() string {
	return c.Name()
}

// Message returns the human readable description of the code.
func (c StatusCode) Message() string {
	if !c.Valid() {
		return fmt.Sprintf("Unknown error %d", int(c))
	}
	return statusTable[c].message
}

// Codes lists every known status code in rp.h order.
func Codes() []StatusCode {
	out := make([]StatusCode, len(statusTable))
	for i := range statusTable {
		out[i] = StatusCode(i)
	}
	return out
}
