package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by EMAIL_PROVIDER, LLM_PROVIDER and LEAD_STORE.
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
	EmailProviderPostmark = "postmark"
	EmailProviderStub     = "stub"

	LLMProviderOpenAI  = "openai"
	LLMProviderGemini  = "gemini"
	LLMProviderBedrock = "bedrock"
	LLMProviderNone    = "none"
	LLMProviderAuto    = "auto"

	LeadStoreMemory   = "memory"
	LeadStorePostgres = "postgres"
	LeadStoreDynamoDB = "dynamodb"
)

// Config holds application configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Email delivery
	EmailProvider        string
	EmailFromAddress     string
	EmailFromName        string
	EmailTimeout         time.Duration
	SendGridAPIKey       string
	PostmarkServerToken  string
	PostmarkAccountToken string

	// Text generation
	LLMProvider      string
	LLMModel         string
	LLMTemperature   float32
	LLMMaxTokens     int
	ContentWordLimit int
	LLMTimeout       time.Duration
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string

	// Submission storage
	LeadStore   string
	DatabaseURL string
	LeadsTable  string

	// Rate limiting
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	RateLimitRPS   float64
	RateLimitBurst int

	AdminJWTSecret string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	ConfirmationArchiveBucket string
	// ConfirmationEndpointURL points the form at a separately deployed
	// confirmation handler. Empty means in-process.
	ConfirmationEndpointURL string
}

// Default model ids used when LLM_MODEL is unset.
const (
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultBedrockModel = "anthropic.claude-3-haiku-20240307-v1:0"
)

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		EmailProvider:        strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", "welcome@leadflow.dev"),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "LeadFlow"),
		EmailTimeout:         getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),
		SendGridAPIKey:       getEnv("SENDGRID_API_KEY", ""),
		PostmarkServerToken:  getEnv("POSTMARK_SERVER_TOKEN", ""),
		PostmarkAccountToken: getEnv("POSTMARK_ACCOUNT_TOKEN", ""),

		LLMProvider:      strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", LLMProviderAuto))),
		LLMModel:         strings.TrimSpace(getEnv("LLM_MODEL", "")),
		LLMTemperature:   float32(getEnvAsFloat("LLM_TEMPERATURE", 0.7)),
		LLMMaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 200),
		ContentWordLimit: getEnvAsInt("CONTENT_WORD_LIMIT", 100),
		LLMTimeout:       getEnvAsDuration("LLM_TIMEOUT", 15*time.Second),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),

		LeadStore:   strings.ToLower(strings.TrimSpace(getEnv("LEAD_STORE", LeadStoreMemory))),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LeadsTable:  getEnv("LEADS_TABLE", "lead_submissions"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		ConfirmationArchiveBucket: getEnv("CONFIRMATION_ARCHIVE_BUCKET", ""),
		ConfirmationEndpointURL:   getEnv("CONFIRMATION_ENDPOINT_URL", ""),
	}

	cfg.LLMProvider = resolveLLMProvider(cfg.LLMProvider, cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultLLMModel(cfg.LLMProvider)
	}
	return cfg
}

// resolveLLMProvider maps "auto" (or an empty value) to the first provider
// with credentials, and to "none" when there are none, so a missing key
// means fallback messages rather than a failed startup.
func resolveLLMProvider(provider, openAIKey, geminiKey string) string {
	if provider != LLMProviderAuto && provider != "" {
		return provider
	}
	switch {
	case strings.TrimSpace(openAIKey) != "":
		return LLMProviderOpenAI
	case strings.TrimSpace(geminiKey) != "":
		return LLMProviderGemini
	default:
		return LLMProviderNone
	}
}

// DefaultLLMModel returns the model id used for provider when LLM_MODEL is
// unset. It is empty for "none" and unknown providers.
func DefaultLLMModel(provider string) string {
	switch provider {
	case LLMProviderOpenAI:
		return DefaultOpenAIModel
	case LLMProviderGemini:
		return DefaultGeminiModel
	case LLMProviderBedrock:
		return DefaultBedrockModel
	default:
		return ""
	}
}

// ResolvedEmailProvider returns the email provider to use. "auto" picks the
// first provider with credentials and falls back to the stub sender.
func (c *Config) ResolvedEmailProvider() string {
	switch c.EmailProvider {
	case EmailProviderSendGrid, EmailProviderSES, EmailProviderPostmark, EmailProviderStub:
		return c.EmailProvider
	}
	switch {
	case strings.TrimSpace(c.SendGridAPIKey) != "":
		return EmailProviderSendGrid
	case strings.TrimSpace(c.PostmarkServerToken) != "":
		return EmailProviderPostmark
	default:
		return EmailProviderStub
	}
}

// Validate reports every missing or inconsistent setting for the selected
// providers in a single error.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.EmailFromAddress) == "" {
		errs = append(errs, errors.New("EMAIL_FROM_ADDRESS is required"))
	}

	switch c.ResolvedEmailProvider() {
	case EmailProviderSendGrid:
		if strings.TrimSpace(c.SendGridAPIKey) == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required for sendgrid"))
		}
	case EmailProviderPostmark:
		if strings.TrimSpace(c.PostmarkServerToken) == "" || strings.TrimSpace(c.PostmarkAccountToken) == "" {
			errs = append(errs, errors.New("POSTMARK_SERVER_TOKEN and POSTMARK_ACCOUNT_TOKEN are required for postmark"))
		}
	}

	model := strings.ToLower(strings.TrimSpace(c.LLMModel))
	switch c.LLMProvider {
	case LLMProviderNone:
	case LLMProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for openai"))
		}
		if model == "" {
			errs = append(errs, errors.New("LLM_MODEL is required for openai"))
		}
	case LLMProviderGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for gemini"))
		}
		if !strings.HasPrefix(model, "gemini") {
			errs = append(errs, fmt.Errorf("LLM_MODEL %q is not a gemini model", c.LLMModel))
		}
	case LLMProviderBedrock:
		switch {
		case model == "":
			errs = append(errs, errors.New("LLM_MODEL is required for bedrock"))
		case strings.HasPrefix(model, "gpt-") || strings.HasPrefix(model, "gemini"):
			errs = append(errs, fmt.Errorf("LLM_MODEL %q is not a bedrock model id", c.LLMModel))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.LLMMaxTokens <= 0 {
		errs = append(errs, errors.New("LLM_MAX_TOKENS must be positive"))
	}
	if c.ContentWordLimit <= 0 {
		errs = append(errs, errors.New("CONTENT_WORD_LIMIT must be positive"))
	}

	switch c.LeadStore {
	case LeadStoreMemory:
	case LeadStorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres lead store"))
		}
	case LeadStoreDynamoDB:
		if strings.TrimSpace(c.LeadsTable) == "" {
			errs = append(errs, errors.New("LEADS_TABLE is required for dynamodb lead store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEAD_STORE %q", c.LeadStore))
	}

	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
