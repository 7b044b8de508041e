// internal/domain/entity/errors.go
package entity

import (
	"errors"
	"fmt"
)

// Error taxonomy for the verification pipeline. Only ErrMissingConfig is an
// operator error worth terminating for; every other error resolves to a
// false validity flag plus a log entry.
var (
	// ErrMissingConfig signals an empty endpoint, key or model identifier
	ErrMissingConfig = errors.New("missing configuration value")

	// ErrExtractionTimeout signals an exhausted poll budget; the boarding
	// pass is unverifiable for this run
	ErrExtractionTimeout = errors.New("extraction job did not complete within poll budget")

	// ErrPassengerNotFound signals zero manifest rows matching a name
	ErrPassengerNotFound = errors.New("passenger not found in manifest")

	// ErrAmbiguousPassenger signals more than one manifest row matching a name
	ErrAmbiguousPassenger = errors.New("multiple manifest rows match passenger")

	// ErrMissingSignal signals an absent verification input (no usable
	// identity fields, or no face detected)
	ErrMissingSignal = errors.New("verification signal absent")
)

// SubmissionError is returned when the extraction service rejects a job
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("extraction submit rejected with status %d: %s", e.StatusCode, e.Body)
}
