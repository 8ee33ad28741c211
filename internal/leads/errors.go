package leads

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidLead is returned when a submission fails validation.
	ErrInvalidLead = errors.New("leads: invalid lead input")

	// ErrConfirmerUnreachable marks transport failures talking to a remote
	// confirmation handler, as opposed to the handler reporting a failure.
	ErrConfirmerUnreachable = errors.New("leads: confirmation handler unreachable")

	// ErrSubmissionNotFound is returned when a submission is not found
	ErrSubmissionNotFound = errors.New("leads: submission not found")
)

// ValidationErrors is the error form of a failed Validate pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "leads: validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidLead).
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidLead
}
