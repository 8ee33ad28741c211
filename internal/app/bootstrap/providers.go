package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/leadflow/internal/config"
	"github.com/wolfman30/leadflow/internal/llm"
	"github.com/wolfman30/leadflow/internal/notify"
	"github.com/wolfman30/leadflow/pkg/logging"
)

var errAWSConfigRequired = errors.New("bootstrap: aws config required")

// BuildLLMClient returns the configured text-generation client. A nil client
// with a nil error means generation is disabled and every message uses the
// fallback template.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (llm.Client, error) {
	if logger == nil {
		logger = logging.Default()
	}
	model := cfg.LLMModel
	if model == "" {
		model = appconfig.DefaultLLMModel(cfg.LLMProvider)
	}

	var client llm.Client
	switch cfg.LLMProvider {
	case appconfig.LLMProviderNone, "":
		logger.Info("text generation disabled, using fallback messages only")
		return nil, nil
	case appconfig.LLMProviderOpenAI:
		c := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: &http.Client{Timeout: cfg.LLMTimeout},
		})
		if c == nil {
			return nil, fmt.Errorf("bootstrap: OPENAI_API_KEY is required for LLM_PROVIDER=%s", cfg.LLMProvider)
		}
		client = c
	case appconfig.LLMProviderGemini:
		c, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, err
		}
		client = c
	case appconfig.LLMProviderBedrock:
		if awsCfg == nil {
			return nil, errAWSConfigRequired
		}
		client = llm.NewBedrockClient(bedrockruntime.NewFromConfig(*awsCfg))
	default:
		return nil, fmt.Errorf("bootstrap: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	logger.Info("text generation configured", "provider", cfg.LLMProvider, "model", model)
	return llm.WithTimeout(client, cfg.LLMTimeout), nil
}

// BuildEmailSender returns the delivery client and the resolved provider name.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (notify.EmailSender, string, error) {
	if logger == nil {
		logger = logging.Default()
	}
	provider := cfg.ResolvedEmailProvider()

	var sender notify.EmailSender
	switch provider {
	case appconfig.EmailProviderSendGrid:
		s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if s == nil {
			return nil, "", errors.New("bootstrap: SENDGRID_API_KEY is required")
		}
		sender = s
	case appconfig.EmailProviderPostmark:
		s := notify.NewPostmarkSender(notify.PostmarkConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
			FromEmail:    cfg.EmailFromAddress,
			FromName:     cfg.EmailFromName,
		}, logger)
		if s == nil {
			return nil, "", errors.New("bootstrap: POSTMARK_SERVER_TOKEN is required")
		}
		sender = s
	case appconfig.EmailProviderSES:
		if awsCfg == nil {
			return nil, "", errAWSConfigRequired
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
	case appconfig.EmailProviderStub:
		logger.Warn("email delivery stubbed, confirmations are logged only")
		sender = notify.NewStubEmailSender(logger)
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown EMAIL_PROVIDER %q", provider)
	}
	return notify.WithTimeout(sender, cfg.EmailTimeout), provider, nil
}
