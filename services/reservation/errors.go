package reservation

import (
	"errors"
	"fmt"
)

// ErrSuperseded marks an availability result that arrived after its input
// triple stopped being the live one. Callers drop it and keep the latest
// applied list.
var ErrSuperseded = errors.New("availability result superseded")

// TimeFormatError is fatal: the raw slot payload carries no recognizable
// time pattern and must be re-selected, never retried.
type TimeFormatError struct {
	Raw string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("timeFormatError: no recognizable time in %q", e.Raw)
}

// AvailabilityFetchError is recoverable: the form stays usable with an empty
// slot list and a retry affordance.
type AvailabilityFetchError struct {
	Err error
}

func (e *AvailabilityFetchError) Error() string {
	return fmt.Sprintf("availabilityFetchError: %v", e.Err)
}

func (e *AvailabilityFetchError) Unwrap() error { return e.Err }

// ValidationError carries all violated fields. It blocks submission locally
// and never reaches the network.
type ValidationError struct {
	Mode   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if first := FirstInvalidField(e.Mode, e.Fields); first != "" {
		return fmt.Sprintf("validationError: %s: %s", first, e.Fields[first])
	}
	return "validationError: draft is not submittable"
}

// ConcurrentSubmissionError rejects a second submit while one is in flight.
type ConcurrentSubmissionError struct{}

func (e *ConcurrentSubmissionError) Error() string {
	return "concurrentSubmissionError: a submission is already in progress"
}

// ReservationConflictError means the partner rejected the slot as no longer
// available. The selected slot must be cleared and availability re-resolved.
type ReservationConflictError struct {
	Err error
}

func (e *ReservationConflictError) Error() string {
	return fmt.Sprintf("reservationConflictError: %v", e.Err)
}

func (e *ReservationConflictError) Unwrap() error { return e.Err }

// UnknownSubmissionError wraps any other partner failure. Surfaced verbatim;
// the draft stays editable and no partial state is committed.
type UnknownSubmissionError struct {
	Err error
}

func (e *UnknownSubmissionError) Error() string {
	return fmt.Sprintf("unknownSubmissionError: %v", e.Err)
}

func (e *UnknownSubmissionError) Unwrap() error { return e.Err }
