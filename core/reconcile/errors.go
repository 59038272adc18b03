package reconcile

import "errors"

var (
	// ErrInvalidInput is returned when an expected-unit set is malformed.
	// No session is created.
	ErrInvalidInput = errors.New("invalid expected units")

	// ErrInvalidScan is returned for an empty or unparseable raw code.
	// Session state is left untouched.
	ErrInvalidScan = errors.New("invalid scan")
)
