package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider creates a Provider from configuration, wrapped with the
// standard middleware chain:
//
//	caller → purpose policy → timeout → token budget → retry → tracing → logging → base
//
// The policy layer picks the model and deadline for the call's purpose and
// hands its attempt budget to the retry layer.
// recorder and log may be nil.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "ollama":
		base, err = NewOllamaProvider(cfg.Ollama)
	case "mock":
		return WithPolicies(NewMockProvider(), cfg.Policies), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, recorder, log)
	p = WithTracing(p)
	p = WithRetry(p, cfg.Retry, log)
	p = WithTokenBudget(p, cfg.MaxInputTokens)
	p = WithTimeout(p, cfg.Timeout)
	p = WithPolicies(p, cfg.Policies)
	return p, nil
}
