package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/futable/internal/store"
)

// Options carries the collaborators shared by every provider.
type Options struct {
	Events store.EventRepo
	Logger *zap.Logger

	// MockContent is served by the mock provider for every call.
	MockContent json.RawMessage
}

// NewProvider creates the configured provider wrapped as
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		mock := NewMockProvider()
		if opts.MockContent != nil {
			mock.SetFallback(MockResponse{Content: opts.MockContent})
		}
		base = mock
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, opts.Events, opts.Logger)
	return WithRetry(logged, cfg.Retry, opts.Logger), nil
}
