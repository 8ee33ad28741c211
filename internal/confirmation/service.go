// Package confirmation generates, renders and delivers the welcome email
// sent to a new lead.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/notify"
	"github.com/wolfman30/leadflow/internal/observability/metrics"
	"github.com/wolfman30/leadflow/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("leadflow.internal.confirmation")

// StatusDelivered is the only success status.
const StatusDelivered = "delivered"

var (
	// ErrDelivery wraps failures reported by the email provider.
	ErrDelivery = errors.New("confirmation: delivery failed")

	// ErrUnreachable marks transport failures talking to a remote handler.
	ErrUnreachable = leads.ErrConfirmerUnreachable
)

// Result is the success body of POST /send-confirmation.
type Result struct {
	Success       bool   `json:"success"`
	MessageID     string `json:"messageId"`
	Status        string `json:"status"`
	ContentSource string `json:"contentSource,omitempty"`
}

// Sender identifies the fixed From line and the provider name used in metrics.
type Sender struct {
	Email    string
	Name     string
	Provider string
}

// Service runs generation, rendering and delivery strictly in sequence.
type Service struct {
	generator *Generator
	renderer  *Renderer
	email     notify.EmailSender
	sender    Sender
	archiver  Archiver
	metrics   *metrics.ConfirmationMetrics
	logger    *logging.Logger
	now       func() time.Time
}

func NewService(generator *Generator, renderer *Renderer, email notify.EmailSender, sender Sender, logger *logging.Logger) *Service {
	if generator == nil {
		panic("confirmation: generator required")
	}
	if email == nil {
		panic("confirmation: email sender required")
	}
	if renderer == nil {
		renderer = NewRenderer(sender.Name)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		generator: generator,
		renderer:  renderer,
		email:     email,
		sender:    sender,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithArchiver stores a copy of every delivered email.
func (s *Service) WithArchiver(a Archiver) *Service {
	if a != nil {
		s.archiver = a
	}
	return s
}

func (s *Service) WithMetrics(m *metrics.ConfirmationMetrics) *Service {
	s.metrics = m
	return s
}

// Send validates the lead, generates the message (falling back when the AI
// call fails), renders the template and delivers it. Validation failures
// return leads.ValidationErrors before any external call.
func (s *Service) Send(ctx context.Context, in leads.LeadInput) (Result, error) {
	if errs := leads.Validate(in); len(errs) > 0 {
		return Result{}, leads.ValidationErrors(errs)
	}
	lead := in.Normalized()
	start := s.now()

	ctx, span := tracer.Start(ctx, "confirmation.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("leadflow.lead.industry", lead.Industry),
		attribute.String("leadflow.email.provider", s.sender.Provider),
	)

	content := s.generator.Generate(ctx, lead)
	s.metrics.ObserveContent(content.Source)

	html, err := s.renderer.Render(lead, content.Text)
	if err != nil {
		return s.fail(span, start, err)
	}

	subject := Subject(lead.Name)
	messageID, err := s.email.Send(ctx, notify.EmailMessage{
		From:     s.sender.Email,
		FromName: s.sender.Name,
		To:       []string{lead.Email},
		Subject:  subject,
		HTML:     html,
	})
	if err != nil {
		return s.fail(span, start, fmt.Errorf("%w: %w", ErrDelivery, err))
	}
	if strings.TrimSpace(messageID) == "" {
		return s.fail(span, start, fmt.Errorf("%w: provider %s returned no message id", ErrDelivery, s.sender.Provider))
	}

	s.metrics.ObserveDelivery(s.sender.Provider, StatusDelivered)
	s.metrics.ObserveDuration(StatusDelivered, s.now().Sub(start).Seconds())
	span.SetAttributes(attribute.String("leadflow.email.message_id", messageID))
	s.logger.Info("confirmation delivered", "message_id", messageID, "industry", lead.Industry, "content_source", content.Source)

	if s.archiver != nil {
		rec := Record{
			MessageID:     messageID,
			Provider:      s.sender.Provider,
			Name:          lead.Name,
			Email:         lead.Email,
			Industry:      lead.Industry,
			Subject:       subject,
			ContentSource: content.Source,
			HTML:          html,
			SentAt:        s.now(),
		}
		if err := s.archiver.Archive(ctx, rec); err != nil {
			s.logger.Warn("failed to archive confirmation", "error", err, "message_id", messageID)
		}
	}

	return Result{
		Success:       true,
		MessageID:     messageID,
		Status:        StatusDelivered,
		ContentSource: content.Source,
	}, nil
}

// Confirm adapts Send to leads.Confirmer for in-process use.
func (s *Service) Confirm(ctx context.Context, lead leads.LeadInput) (leads.Confirmation, error) {
	res, err := s.Send(ctx, lead)
	if err != nil {
		return leads.Confirmation{}, err
	}
	return leads.Confirmation{MessageID: res.MessageID, Status: res.Status, ContentSource: res.ContentSource}, nil
}

func (s *Service) fail(span trace.Span, start time.Time, err error) (Result, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "confirmation failed")
	s.metrics.ObserveDelivery(s.sender.Provider, "failed")
	s.metrics.ObserveDuration("failed", s.now().Sub(start).Seconds())
	s.logger.Error("confirmation failed", "error", err)
	return Result{}, err
}

var _ leads.Confirmer = (*Service)(nil)
