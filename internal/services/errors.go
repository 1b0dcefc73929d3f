package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors of the workflows. Handlers map these onto HTTP status
// codes with errors.Is; window errors (past date, window exceeded) come from
// the slots package directly.
var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	ErrDuplicateBooking = errors.New("this slot is already booked for this email")
	ErrDuplicateOffer   = errors.New("offer already exists for this candidate")
	ErrAlreadyProcessed = errors.New("this offer has already been processed")

	ErrCutoffPassed = errors.New("booking cutoff time has passed for this slot")
	ErrOfferExpired = errors.New("this offer has expired")
)

// FieldError is a single input violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every input violation at once (validate-all, not
// fail-fast on the first field).
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// add records a violation.
func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// orNil returns the error only if violations were recorded.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// StorageError wraps a persistence-layer failure. The operation aborted with
// no partial state (single-document writes are atomic at the store level).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotificationError wraps a failure on the best-effort mail side channel.
// Any state mutation preceding the send is already committed and is not
// rolled back.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification delivery failed: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
