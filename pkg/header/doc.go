// Package header exposes the public contracts for loading and parsing the
// RedPitaya C headers (rp.h, rp_acq.h, ...). Implementations live under
// internal/header so the parser internals stay private.
package header
