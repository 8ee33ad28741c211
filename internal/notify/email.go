package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("notify: at least one recipient required")

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (SendGrid, SES, Postmark) without changing callers.
// Send returns the provider's message id.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// EmailMessage represents an email to be sent. From and FromName override
// the sender defaults when set.
type EmailMessage struct {
	From     string
	FromName string
	To       []string
	Subject  string
	HTML     string
	Text     string // Optional plain text body
}

func (m EmailMessage) validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return ErrNoRecipients
		}
	}
	return nil
}

func (m EmailMessage) sender(defaultEmail, defaultName string) (string, string) {
	email, name := m.From, m.FromName
	if email == "" {
		email = defaultEmail
	}
	if name == "" {
		name = defaultName
	}
	return email, name
}

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client    sendgridAPI
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "LeadFlow"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via SendGrid. The message id comes from the
// X-Message-Id response header.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("notify: sendgrid client not configured")
	}
	if err := msg.validate(); err != nil {
		return "", err
	}

	fromEmail, fromName := msg.sender(s.fromEmail, s.fromName)
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(fromName, fromEmail))
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(p)
	if msg.Text != "" {
		message.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err)
		return "", fmt.Errorf("notify: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return "", fmt.Errorf("notify: sendgrid returned status %d: %s", response.StatusCode, strings.TrimSpace(response.Body))
	}

	messageID := headerValue(response.Headers, "X-Message-Id")
	s.logger.Info("email sent via sendgrid", "subject", msg.Subject, "status", response.StatusCode, "message_id", messageID)
	return messageID, nil
}

func headerValue(headers map[string][]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// StubEmailSender is a no-op sender for local runs or when email is disabled.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email and returns a generated message id.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	id := "stub-" + uuid.NewString()
	s.logger.Info("stub email sender: would send email", "subject", msg.Subject, "recipients", len(msg.To), "message_id", id)
	return id, nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)

type timeoutSender struct {
	next    EmailSender
	timeout time.Duration
}

// WithTimeout bounds every Send call. A non-positive timeout returns next unchanged.
func WithTimeout(next EmailSender, timeout time.Duration) EmailSender {
	if next == nil || timeout <= 0 {
		return next
	}
	return &timeoutSender{next: next, timeout: timeout}
}

func (s *timeoutSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Send(callCtx, msg)
}
