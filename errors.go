package seriate

import "errors"

// Sentinel errors classifying every failure the library reports. Packages wrap
// these with fmt.Errorf("...: %w", ...) so callers can branch with errors.Is
// without importing each subpackage's own sentinels.
var (
	// ErrInvalidArgument reports malformed parameters: an empty series, a
	// forecast horizon below one, a cluster count exceeding the number of
	// series, an even seasonal window.
	ErrInvalidArgument = errors.New("seriate: invalid argument")

	// ErrInsufficientData reports a series too short relative to its period
	// for the requested seasonal operation.
	ErrInsufficientData = errors.New("seriate: insufficient data")

	// ErrModelFit reports that no candidate model converged. Individual
	// candidate failures during a search are skipped; this surfaces only when
	// zero candidates survive.
	ErrModelFit = errors.New("seriate: no model converged")

	// ErrNumericInstability reports a diverging optimization or non-finite
	// intermediate values.
	ErrNumericInstability = errors.New("seriate: numeric instability")
)
