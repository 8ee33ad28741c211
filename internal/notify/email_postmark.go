package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
	"github.com/wolfman30/leadflow/pkg/logging"
)

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender sends emails through Postmark's transactional API.
type PostmarkSender struct {
	client    postmarkAPI
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// PostmarkConfig holds configuration for Postmark. The account token is optional.
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	FromEmail    string
	FromName     string
}

// NewPostmarkSender returns nil when no server token is configured.
func NewPostmarkSender(cfg PostmarkConfig, logger *logging.Logger) *PostmarkSender {
	if cfg.ServerToken == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "LeadFlow"
	}
	return &PostmarkSender{
		client:    postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send delivers the message. Opens are tracked and links in the HTML body only.
func (s *PostmarkSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("notify: postmark client not configured")
	}
	if err := msg.validate(); err != nil {
		return "", err
	}

	fromEmail, fromName := msg.sender(s.fromEmail, s.fromName)
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       fmt.Sprintf("%s <%s>", fromName, fromEmail),
		To:         strings.Join(msg.To, ","),
		Subject:    msg.Subject,
		HTMLBody:   msg.HTML,
		TextBody:   msg.Text,
		Tag:        "lead-confirmation",
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		s.logger.Error("postmark send failed", "error", err)
		return "", fmt.Errorf("notify: postmark send failed: %w", err)
	}
	if resp.ErrorCode > 0 {
		s.logger.Error("postmark rejected message", "code", resp.ErrorCode, "message", resp.Message)
		return "", fmt.Errorf("notify: postmark error %d: %s", resp.ErrorCode, resp.Message)
	}

	s.logger.Info("email sent via postmark", "subject", msg.Subject, "message_id", resp.MessageID)
	return resp.MessageID, nil
}

var _ EmailSender = (*PostmarkSender)(nil)
