package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/leadflow/pkg/logging"
)

// Confirmer sends the confirmation email for a validated lead, either
// in-process or by calling a remote confirmation handler.
type Confirmer interface {
	Confirm(ctx context.Context, lead LeadInput) (Confirmation, error)
}

// SubmissionObserver records submission outcomes; metrics.LeadMetrics implements it.
type SubmissionObserver interface {
	ObserveSubmission(outcome string)
}

// Submission outcomes reported to the observer.
const (
	OutcomeAccepted           = "accepted"
	OutcomeInvalid            = "invalid"
	OutcomeConfirmationFailed = "confirmation_failed"
	OutcomeUnreachable        = "unreachable"
	OutcomeStoreFailed        = "store_failed"
)

// SubmitResult is returned for an accepted submission.
type SubmitResult struct {
	Submission   *Submission  `json:"submission"`
	Confirmation Confirmation `json:"confirmation"`
}

// Service runs the form flow: validate, confirm, record.
type Service struct {
	repo      Repository
	confirmer Confirmer
	observer  SubmissionObserver
	logger    *logging.Logger
}

// NewService wires the submission flow. observer may be nil.
func NewService(repo Repository, confirmer Confirmer, observer SubmissionObserver, logger *logging.Logger) *Service {
	if repo == nil {
		panic("leads: repository required")
	}
	if confirmer == nil {
		panic("leads: confirmer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		confirmer: confirmer,
		observer:  observer,
		logger:    logger,
	}
}

// Submit validates the lead, sends its confirmation and records it. Invalid
// input returns ValidationErrors without any network call. The submission is
// only recorded after the confirmation succeeds.
func (s *Service) Submit(ctx context.Context, in LeadInput) (*SubmitResult, error) {
	if errs := Validate(in); len(errs) > 0 {
		s.observe(OutcomeInvalid)
		return nil, ValidationErrors(errs)
	}
	lead := in.Normalized()

	conf, err := s.confirmer.Confirm(ctx, lead)
	if err != nil {
		if errors.Is(err, ErrConfirmerUnreachable) {
			s.observe(OutcomeUnreachable)
			s.logger.Error("confirmation handler unreachable", "error", err, "industry", lead.Industry)
		} else {
			s.observe(OutcomeConfirmationFailed)
			s.logger.Error("confirmation failed", "error", err, "industry", lead.Industry)
		}
		return nil, fmt.Errorf("leads: confirm: %w", err)
	}

	sub, err := s.repo.Create(ctx, &CreateSubmissionRequest{
		Lead:          lead,
		MessageID:     conf.MessageID,
		ContentSource: conf.ContentSource,
	})
	if err != nil {
		s.observe(OutcomeStoreFailed)
		// The email has already gone out; keep the message id in the log so
		// the record can be reconstructed.
		s.logger.Error("failed to record submission", "error", err, "message_id", conf.MessageID)
		return nil, fmt.Errorf("leads: record submission: %w", err)
	}

	s.observe(OutcomeAccepted)
	s.logger.Info("lead submitted", "id", sub.ID, "industry", sub.Industry, "message_id", conf.MessageID, "content_source", conf.ContentSource)
	return &SubmitResult{Submission: sub, Confirmation: conf}, nil
}

// Get returns one recorded submission, or ErrSubmissionNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns recorded submissions.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Submission, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveSubmission(outcome)
	}
}
