package confirmation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/llm"
	"github.com/wolfman30/leadflow/pkg/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/unicode/norm"
)

// Content sources reported on every confirmation.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

const (
	defaultWordLimit  = 100
	maxPromptNameRune = 80
)

// Content is the message body placed into the email template.
type Content struct {
	Text   string
	Source string
}

// GeneratorConfig holds the fixed sampling parameters.
type GeneratorConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	WordLimit   int
}

// Generator produces the personalized message. It never fails: any problem
// with the text-generation client yields the deterministic fallback.
type Generator struct {
	client llm.Client
	cfg    GeneratorConfig
	logger *logging.Logger
}

// NewGenerator builds a generator. client may be nil, in which case every
// message is the fallback.
func NewGenerator(client llm.Client, cfg GeneratorConfig, logger *logging.Logger) *Generator {
	if cfg.WordLimit <= 0 {
		cfg.WordLimit = defaultWordLimit
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{client: client, cfg: cfg, logger: logger}
}

// SystemPrompt is the fixed instruction sent with every request.
func (g *Generator) SystemPrompt() string {
	return fmt.Sprintf("You are a friendly onboarding specialist. Craft an energetic, industry-specific welcome message under %d words. "+
		"Address the reader by name, mention their industry, and do not include a subject line, greeting headers or signatures.", g.cfg.WordLimit)
}

func userPrompt(lead leads.LeadInput) string {
	return fmt.Sprintf("Write a welcome message for %s, who works in the %s industry and just signed up.",
		sanitizePromptInput(lead.Name, maxPromptNameRune), leads.Industry(lead.Industry).Label())
}

// Generate returns AI content when the client answers with text and the
// fallback otherwise.
func (g *Generator) Generate(ctx context.Context, lead leads.LeadInput) Content {
	ctx, span := tracer.Start(ctx, "confirmation.generate")
	defer span.End()

	if g.client == nil {
		span.SetAttributes(attribute.String("leadflow.content.source", SourceFallback))
		return Content{Text: FallbackMessage(lead), Source: SourceFallback}
	}

	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.cfg.Model,
		System:      []string{g.SystemPrompt()},
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userPrompt(lead)}},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		span.SetAttributes(attribute.String("leadflow.content.source", SourceFallback))
		g.logger.Warn("ai generation failed, using fallback message", "error", err, "industry", lead.Industry)
		return Content{Text: FallbackMessage(lead), Source: SourceFallback}
	}

	span.SetAttributes(attribute.String("leadflow.content.source", SourceAI))
	return Content{Text: strings.TrimSpace(resp.Text), Source: SourceAI}
}

// FallbackMessage is built only from the lead's name and industry.
func FallbackMessage(lead leads.LeadInput) string {
	name := strings.TrimSpace(lead.Name)
	industry := leads.Industry(strings.TrimSpace(lead.Industry))
	field := "your industry"
	if industry.IsValid() && industry != leads.IndustryOther {
		field = strings.ToLower(industry.Label())
	}
	return fmt.Sprintf("Hi %s! Welcome aboard! We're thrilled to have you with us. "+
		"Over the next few days we'll share practical ideas built for teams in %s, so keep an eye on your inbox. "+
		"Let's build something great together!", name, field)
}

// sanitizePromptInput normalizes the text, drops control characters,
// collapses whitespace and caps the length in runes.
func sanitizePromptInput(s string, limit int) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		case unicode.IsControl(r):
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if runes := []rune(out); limit > 0 && len(runes) > limit {
		out = strings.TrimSpace(string(runes[:limit]))
	}
	return out
}
