package marketdata

import "errors"

var (
	// ErrUnavailable means one adapter call failed. The aggregator treats it
	// as transient and moves on to the next adapter in the chain.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrNoData means every adapter in a capability chain was exhausted
	// without producing data. It is surfaced to the caller so that "absent"
	// stays distinguishable from an empty or zero value.
	ErrNoData = errors.New("no data available")

	// ErrInvalidInput means the arguments were structurally malformed.
	ErrInvalidInput = errors.New("invalid input")
)
