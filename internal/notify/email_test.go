package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/mrz1836/postmark"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/leadflow/pkg/logging"
)

func testMessage() EmailMessage {
	return EmailMessage{
		To:      []string{"john@example.com"},
		Subject: "Welcome aboard, John Doe!",
		HTML:    "<p>Hello</p>",
	}
}

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "LeadFlow" {
		t.Errorf("expected default from name 'LeadFlow', got %q", sender.fromName)
	}
}

type stubSendGrid struct {
	mail *mail.SGMailV3
	resp *rest.Response
	err  error
}

func (s *stubSendGrid) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	s.mail = m
	return s.resp, s.err
}

func TestSendGridSender_Send(t *testing.T) {
	stub := &stubSendGrid{resp: &rest.Response{
		StatusCode: 202,
		Headers:    map[string][]string{"X-Message-Id": {"sg-123"}},
	}}
	sender := &SendGridSender{client: stub, fromEmail: "welcome@leadflow.dev", fromName: "LeadFlow", logger: logging.Discard()}

	id, err := sender.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "sg-123" {
		t.Fatalf("expected message id sg-123, got %q", id)
	}
	if stub.mail.From.Address != "welcome@leadflow.dev" {
		t.Errorf("unexpected from %q", stub.mail.From.Address)
	}
	if len(stub.mail.Personalizations) != 1 || stub.mail.Personalizations[0].To[0].Address != "john@example.com" {
		t.Errorf("unexpected personalizations %+v", stub.mail.Personalizations)
	}
	if len(stub.mail.Content) != 1 || stub.mail.Content[0].Type != "text/html" {
		t.Errorf("expected single html content, got %+v", stub.mail.Content)
	}
}

func TestSendGridSender_SendErrors(t *testing.T) {
	tests := []struct {
		name string
		stub *stubSendGrid
		want string
	}{
		{"transport", &stubSendGrid{err: errors.New("dial tcp: timeout")}, "sendgrid send failed"},
		{"status", &stubSendGrid{resp: &rest.Response{StatusCode: 401, Body: `{"errors":[{"message":"bad key"}]}`}}, "status 401"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &SendGridSender{client: tt.stub, logger: logging.Discard()}
			_, err := sender.Send(context.Background(), testMessage())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{}
	if _, err := sender.Send(context.Background(), testMessage()); err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestSenders_RequireRecipients(t *testing.T) {
	msg := testMessage()
	msg.To = nil
	senders := []EmailSender{
		NewStubEmailSender(logging.Discard()),
		&SendGridSender{client: &stubSendGrid{}, logger: logging.Discard()},
		&SESSender{client: &stubSES{}, logger: logging.Discard()},
		&PostmarkSender{client: &stubPostmark{}, logger: logging.Discard()},
	}
	for _, s := range senders {
		if _, err := s.Send(context.Background(), msg); !errors.Is(err, ErrNoRecipients) {
			t.Errorf("%T: expected ErrNoRecipients, got %v", s, err)
		}
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	id, err := NewStubEmailSender(nil).Send(context.Background(), testMessage())
	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
	if !strings.HasPrefix(id, "stub-") {
		t.Errorf("expected stub message id, got %q", id)
	}
}

type stubSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (s *stubSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	stub := &stubSES{}
	sender := NewSESSender(stub, SESConfig{FromEmail: "welcome@leadflow.dev"}, logging.Discard())

	msg := testMessage()
	msg.FromName = "Growth Team"
	id, err := sender.Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "ses-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if got := aws.ToString(stub.input.FromEmailAddress); got != "Growth Team <welcome@leadflow.dev>" {
		t.Errorf("unexpected from %q", got)
	}
	if stub.input.Content.Simple.Body.Text != nil {
		t.Error("text body should be omitted when empty")
	}
	if aws.ToString(stub.input.Content.Simple.Body.Html.Data) != "<p>Hello</p>" {
		t.Error("html body not forwarded")
	}
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&stubSES{err: errors.New("MessageRejected")}, SESConfig{}, logging.Discard())
	if _, err := sender.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error")
	}
}

type stubPostmark struct {
	email postmark.Email
	resp  postmark.EmailResponse
	err   error
}

func (s *stubPostmark) SendEmail(_ context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	s.email = e
	return s.resp, s.err
}

func TestPostmarkSender_Send(t *testing.T) {
	stub := &stubPostmark{resp: postmark.EmailResponse{MessageID: "pm-1"}}
	sender := &PostmarkSender{client: stub, fromEmail: "welcome@leadflow.dev", fromName: "LeadFlow", logger: logging.Discard()}

	id, err := sender.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "pm-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if stub.email.To != "john@example.com" || stub.email.From != "LeadFlow <welcome@leadflow.dev>" {
		t.Errorf("unexpected email %+v", stub.email)
	}
}

func TestPostmarkSender_ErrorCode(t *testing.T) {
	stub := &stubPostmark{resp: postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}}
	sender := &PostmarkSender{client: stub, logger: logging.Discard()}
	_, err := sender.Send(context.Background(), testMessage())
	if err == nil || !strings.Contains(err.Error(), "406") {
		t.Fatalf("expected postmark error code, got %v", err)
	}
}

func TestNewPostmarkSender_NilWithoutToken(t *testing.T) {
	if NewPostmarkSender(PostmarkConfig{}, nil) != nil {
		t.Fatal("expected nil sender without server token")
	}
}
