package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.LLMProvider != LLMProviderNone {
		t.Fatalf("expected text generation disabled without keys, got %s", cfg.LLMProvider)
	}
	if cfg.LLMModel != "" {
		t.Fatalf("expected no model without a provider, got %s", cfg.LLMModel)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Fatalf("expected default temperature 0.7, got %v", cfg.LLMTemperature)
	}
	if cfg.ContentWordLimit != 100 {
		t.Fatalf("expected default word limit, got %d", cfg.ContentWordLimit)
	}
	if cfg.LLMTimeout != 15*time.Second {
		t.Fatalf("expected default llm timeout, got %s", cfg.LLMTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected permissive CORS by default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ResolvedEmailProvider() != EmailProviderStub {
		t.Fatalf("expected stub email provider without credentials, got %s", cfg.ResolvedEmailProvider())
	}
	if cfg.LeadStore != LeadStoreMemory {
		t.Fatalf("expected memory lead store, got %s", cfg.LeadStore)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LLM_MAX_TOKENS", "64")
	t.Setenv("CONTENT_WORD_LIMIT", "50")
	t.Setenv("EMAIL_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if strings.Join(cfg.CORSAllowedOrigins, "|") != "https://a.example|https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ResolvedEmailProvider() != EmailProviderSendGrid {
		t.Fatalf("expected sendgrid when key present, got %s", cfg.ResolvedEmailProvider())
	}
	if cfg.LLMProvider != LLMProviderGemini {
		t.Fatalf("expected provider lowercased, got %s", cfg.LLMProvider)
	}
	if cfg.LLMTemperature != 0.2 || cfg.LLMMaxTokens != 64 || cfg.ContentWordLimit != 50 {
		t.Fatalf("unexpected sampling overrides: %+v", cfg)
	}
	if cfg.EmailTimeout != 3*time.Second {
		t.Fatalf("expected email timeout override, got %s", cfg.EmailTimeout)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.RateLimitRPS)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := &Config{
		EmailProvider:    EmailProviderPostmark,
		LLMProvider:      LLMProviderGemini,
		LLMMaxTokens:     0,
		ContentWordLimit: 10,
		LeadStore:        LeadStorePostgres,
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"EMAIL_FROM_ADDRESS", "POSTMARK_SERVER_TOKEN", "GEMINI_API_KEY", "LLM_MAX_TOKENS", "DATABASE_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
		"EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS", "SENDGRID_API_KEY", "POSTMARK_SERVER_TOKEN", "POSTMARK_ACCOUNT_TOKEN",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS", "CONTENT_WORD_LIMIT",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "LEAD_STORE", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	clearEnv(t)
	if err := Load().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadResolvesLLMProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		openAIKey string
		geminiKey string
		model     string
		want      string
		wantModel string
	}{
		{name: "no keys", want: LLMProviderNone, wantModel: ""},
		{name: "openai key", openAIKey: "sk", want: LLMProviderOpenAI, wantModel: DefaultOpenAIModel},
		{name: "gemini key", geminiKey: "g", want: LLMProviderGemini, wantModel: DefaultGeminiModel},
		{name: "explicit auto prefers openai", provider: "auto", openAIKey: "sk", geminiKey: "g", want: LLMProviderOpenAI, wantModel: DefaultOpenAIModel},
		{name: "explicit bedrock", provider: "bedrock", want: LLMProviderBedrock, wantModel: DefaultBedrockModel},
		{name: "explicit model kept", provider: "gemini", geminiKey: "g", model: "gemini-2.0-pro", want: LLMProviderGemini, wantModel: "gemini-2.0-pro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LLM_PROVIDER", tt.provider)
			t.Setenv("OPENAI_API_KEY", tt.openAIKey)
			t.Setenv("GEMINI_API_KEY", tt.geminiKey)
			t.Setenv("LLM_MODEL", tt.model)

			cfg := Load()
			if cfg.LLMProvider != tt.want {
				t.Fatalf("expected provider %s, got %s", tt.want, cfg.LLMProvider)
			}
			if cfg.LLMModel != tt.wantModel {
				t.Fatalf("expected model %q, got %q", tt.wantModel, cfg.LLMModel)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("resolved config should validate: %v", err)
			}
		})
	}
}

func TestValidateRequiresOpenAIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	err := Load().Validate()
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected missing OPENAI_API_KEY, got %v", err)
	}
}

func TestValidateRejectsModelFromOtherProvider(t *testing.T) {
	for _, provider := range []string{LLMProviderGemini, LLMProviderBedrock} {
		cfg := &Config{
			EmailFromAddress: "welcome@example.com",
			LLMProvider:      provider,
			LLMModel:         DefaultOpenAIModel,
			GeminiAPIKey:     "g",
			LLMMaxTokens:     1,
			ContentWordLimit: 1,
			LeadStore:        LeadStoreMemory,
		}
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "LLM_MODEL") {
			t.Fatalf("%s: expected model mismatch error, got %v", provider, err)
		}
	}
}

func TestValidateUnknownProviders(t *testing.T) {
	cfg := &Config{
		EmailFromAddress: "welcome@example.com",
		LLMProvider:      "mystery",
		LLMMaxTokens:     1,
		ContentWordLimit: 1,
		LeadStore:        "sqlite",
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "LLM_PROVIDER") || !strings.Contains(err.Error(), "LEAD_STORE") {
		t.Fatalf("expected unknown provider errors, got %v", err)
	}
}
