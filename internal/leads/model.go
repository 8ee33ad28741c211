package leads

import (
	"strings"
	"time"
)

// LeadInput is the raw form submission.
type LeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Industry string `json:"industry"`
}

// Normalized returns a copy with every field trimmed.
func (in LeadInput) Normalized() LeadInput {
	return LeadInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Industry: strings.TrimSpace(in.Industry),
	}
}

// ValidationError is a single field-level problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Submission is a recorded, confirmed lead.
type Submission struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Industry      string    `json:"industry"`
	MessageID     string    `json:"message_id,omitempty"`
	ContentSource string    `json:"content_source,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// CreateSubmissionRequest carries what the store needs to record a submission.
type CreateSubmissionRequest struct {
	Lead          LeadInput
	MessageID     string
	ContentSource string
}

// Validate rejects requests whose lead would not pass the form validator.
func (r *CreateSubmissionRequest) Validate() error {
	if errs := Validate(r.Lead); len(errs) > 0 {
		return ValidationErrors(errs)
	}
	return nil
}

// ListFilter pages through recorded submissions, newest first.
type ListFilter struct {
	Limit  int
	Offset int
}

// Confirmation is what the confirmation handler reports back for a lead.
type Confirmation struct {
	MessageID     string `json:"message_id"`
	Status        string `json:"status"`
	ContentSource string `json:"content_source,omitempty"`
}
