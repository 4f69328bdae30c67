package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider wrapped as
// caller -> retry -> recording -> provider, so every attempt is recorded.
// recorder may be nil.
func NewProvider(ctx context.Context, cfg Config, recorder RequestRecorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(ProviderOpenAI, cfg.OpenAI)
	case ProviderOpenRouter:
		pc := cfg.OpenRouter
		if pc.BaseURL == "" {
			pc.BaseURL = DefaultOpenRouterURL
		}
		base, err = NewOpenAIProvider(ProviderOpenRouter, pc)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithRecording(base, recorder), cfg.Retry), nil
}
