package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// DefaultOpenRouterURL is the OpenAI-compatible endpoint used for openrouter.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	OpenRouter ProviderConfig
	Gemini     ProviderConfig

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional endpoint override
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: DefaultOpenRouterURL},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv overlays QUIZBOOK_* environment variables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("QUIZBOOK_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	overlay(&cfg.Anthropic, "ANTHROPIC")
	overlay(&cfg.OpenAI, "OPENAI")
	overlay(&cfg.OpenRouter, "OPENROUTER")
	overlay(&cfg.Gemini, "GEMINI")
	return cfg
}

func overlay(pc *ProviderConfig, name string) {
	if v := os.Getenv("QUIZBOOK_" + name + "_API_KEY"); v != "" {
		pc.APIKey = v
	}
	if v := os.Getenv("QUIZBOOK_" + name + "_MODEL"); v != "" {
		pc.Model = v
	}
	if v := os.Getenv("QUIZBOOK_" + name + "_BASE_URL"); v != "" {
		pc.BaseURL = v
	}
}

// DiscoverConfig looks for the vendors' standard API key variables
// (Gemini, then OpenAI, then Anthropic, then OpenRouter) and returns a
// config for the first one set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		pc       *ProviderConfig
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			p.pc.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Resolve returns the explicit QUIZBOOK_* configuration when its provider
// has a key, otherwise a discovered one.
func Resolve() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if os.Getenv("QUIZBOOK_LLM_PROVIDER") != "" {
		return Config{}, err
	}
	if found, ok := DiscoverConfig(); ok {
		return found, nil
	}
	return Config{}, fmt.Errorf("no LLM provider configured: set QUIZBOOK_LLM_PROVIDER and its API key, or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var pc ProviderConfig
	switch c.Provider {
	case ProviderAnthropic:
		pc = c.Anthropic
	case ProviderOpenAI:
		pc = c.OpenAI
	case ProviderOpenRouter:
		pc = c.OpenRouter
	case ProviderGemini:
		pc = c.Gemini
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("%s API key is required (QUIZBOOK_%s_API_KEY)", c.Provider, envName(c.Provider))
	}
	return nil
}

func envName(provider string) string {
	switch provider {
	case ProviderOpenRouter:
		return "OPENROUTER"
	case ProviderOpenAI:
		return "OPENAI"
	case ProviderGemini:
		return "GEMINI"
	default:
		return "ANTHROPIC"
	}
}
