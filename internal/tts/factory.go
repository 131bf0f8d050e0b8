package tts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/futable/internal/store"
)

// Options carries the collaborators shared by every backend.
type Options struct {
	Events store.EventRepo
	Logger *zap.Logger

	// Mock replaces the mock backend's default behaviour.
	Mock *MockSynthesizer
}

// New creates the configured synthesizer wrapped as
// caller → timeout/FetchError → retry → logging → base.
func New(ctx context.Context, cfg Config, opts Options) (Synthesizer, error) {
	var base Synthesizer
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiSynthesizer(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAISynthesizer(cfg.OpenAI)
	case "mock":
		if opts.Mock != nil {
			base = opts.Mock
		} else {
			base = NewMockSynthesizer()
		}
	default:
		return nil, fmt.Errorf("unknown speech provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s speech provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, opts.Events, opts.Logger)
	retried := WithRetry(logged, cfg.Retry, opts.Logger)
	return &fetchSynthesizer{inner: retried, timeout: cfg.Timeout}, nil
}
