package tts

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/futable/internal/llm"
	"github.com/abhisek/futable/internal/store"
)

type retrySynthesizer struct {
	inner  Synthesizer
	config llm.RetryConfig
	logger *zap.Logger
}

// WithRetry retries transient failures with the same backoff as text
// generation.
func WithRetry(s Synthesizer, cfg llm.RetryConfig, logger *zap.Logger) Synthesizer {
	return &retrySynthesizer{inner: s, config: cfg, logger: logger}
}

func (r *retrySynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	return llm.Do(ctx, r.config, r.logger, func(ctx context.Context) (*Clip, error) {
		return r.inner.Synthesize(ctx, text)
	})
}

func (r *retrySynthesizer) ModelID() string { return r.inner.ModelID() }

type loggingSynthesizer struct {
	inner    Synthesizer
	provider string
	events   store.EventRepo
	logger   *zap.Logger
}

// WithLogging records every call in the event store under the speech
// purpose. Audio bytes are not stored, only their size and type.
func WithLogging(s Synthesizer, provider string, events store.EventRepo, logger *zap.Logger) Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loggingSynthesizer{inner: s, provider: provider, events: events, logger: logger}
}

func (l *loggingSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()
	clip, err := l.inner.Synthesize(ctx, text)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     llm.PurposeSpeech,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: "[text]\n" + text + "\n",
	}
	if clip != nil {
		data.InputTokens = clip.Usage.InputTokens
		data.OutputTokens = clip.Usage.OutputTokens
		data.ResponseBody = fmt.Sprintf("%s, %d bytes", clip.MIMEType, len(clip.Data))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("speech failed",
			zap.String("provider", l.provider),
			zap.String("model", data.Model),
			zap.String("concept", llm.ConceptFrom(ctx)),
			zap.Duration("latency", latency),
			zap.Error(err))
	} else {
		l.logger.Debug("speech",
			zap.String("provider", l.provider),
			zap.String("model", data.Model),
			zap.Duration("latency", latency),
			zap.Int("bytes", len(clip.Data)))
	}

	llm.Record(ctx, l.events, data, l.logger)
	return clip, err
}

func (l *loggingSynthesizer) ModelID() string { return l.inner.ModelID() }

type fetchSynthesizer struct {
	inner   Synthesizer
	timeout time.Duration
}

func (f *fetchSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSpeech)
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	clip, err := f.inner.Synthesize(ctx, text)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return clip, nil
}

func (f *fetchSynthesizer) ModelID() string { return f.inner.ModelID() }
