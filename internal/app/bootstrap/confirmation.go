package bootstrap

import (
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/leadflow/internal/confirmation"
	appconfig "github.com/wolfman30/leadflow/internal/config"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/llm"
	"github.com/wolfman30/leadflow/internal/notify"
	"github.com/wolfman30/leadflow/internal/observability/metrics"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// ConfirmationDeps are the collaborators built once at startup.
type ConfirmationDeps struct {
	LLM      llm.Client
	Email    notify.EmailSender
	Provider string
	AWS      *aws.Config
	Metrics  *metrics.ConfirmationMetrics
}

// BuildConfirmationService wires generation, rendering and delivery.
func BuildConfirmationService(cfg *appconfig.Config, deps ConfirmationDeps, logger *logging.Logger) *confirmation.Service {
	if logger == nil {
		logger = logging.Default()
	}
	model := cfg.LLMModel
	if model == "" {
		model = appconfig.DefaultLLMModel(cfg.LLMProvider)
	}
	generator := confirmation.NewGenerator(deps.LLM, confirmation.GeneratorConfig{
		Model:       model,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   int32(cfg.LLMMaxTokens),
		WordLimit:   cfg.ContentWordLimit,
	}, logger.Component("generator"))

	svc := confirmation.NewService(
		generator,
		confirmation.NewRenderer(cfg.EmailFromName),
		deps.Email,
		confirmation.Sender{Email: cfg.EmailFromAddress, Name: cfg.EmailFromName, Provider: deps.Provider},
		logger.Component("confirmation"),
	).WithMetrics(deps.Metrics)

	if deps.AWS != nil && strings.TrimSpace(cfg.ConfirmationArchiveBucket) != "" {
		if archiver := confirmation.NewS3Archiver(s3.NewFromConfig(*deps.AWS), cfg.ConfirmationArchiveBucket); archiver != nil {
			svc.WithArchiver(archiver)
			logger.Info("confirmation archive enabled", "bucket", cfg.ConfirmationArchiveBucket)
		}
	}
	return svc
}

// BuildConfirmer returns the remote handler client when
// CONFIRMATION_ENDPOINT_URL is set and the in-process service otherwise.
func BuildConfirmer(cfg *appconfig.Config, local *confirmation.Service) leads.Confirmer {
	if endpoint := strings.TrimSpace(cfg.ConfirmationEndpointURL); endpoint != "" {
		return confirmation.NewClient(endpoint, &http.Client{Timeout: cfg.LLMTimeout + cfg.EmailTimeout})
	}
	return local
}
