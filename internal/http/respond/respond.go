// Package respond writes the JSON envelopes shared by the public endpoints.
package respond

import (
	"encoding/json"
	"net/http"
	"time"
)

// FieldError is a single field-level problem reported back to the form.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Failure is the body of every non-2xx response on the public API.
type Failure struct {
	Success   bool         `json:"success"`
	Error     string       `json:"error"`
	Timestamp string       `json:"timestamp"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// JSON encodes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes a Failure envelope stamped with the current time.
func Fail(w http.ResponseWriter, status int, message string, fields ...FieldError) {
	JSON(w, status, NewFailure(message, fields...))
}

// NewFailure builds a Failure envelope without writing it.
func NewFailure(message string, fields ...FieldError) Failure {
	return Failure{
		Success:   false,
		Error:     message,
		Timestamp: now().Format(time.RFC3339),
		Errors:    fields,
	}
}
