package tts

import (
	"context"
	"sync"
	"time"
)

// MockResult is a canned result for the MockSynthesizer.
type MockResult struct {
	Clip *Clip
	Err  error

	// Block, when non-nil, holds the call until it is closed or the
	// context is cancelled.
	Block <-chan struct{}
}

// MockSynthesizer returns canned results in FIFO order and records the
// texts it was asked to speak.
type MockSynthesizer struct {
	mu       sync.Mutex
	results  []MockResult
	fallback *MockResult
	Texts    []string
}

// NewMockSynthesizer creates a MockSynthesizer with the given results.
func NewMockSynthesizer(results ...MockResult) *MockSynthesizer {
	return &MockSynthesizer{results: results}
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	m.mu.Lock()
	m.Texts = append(m.Texts, text)

	var res MockResult
	switch {
	case len(m.results) > 0:
		res = m.results[0]
		m.results = m.results[1:]
	case m.fallback != nil:
		res = *m.fallback
	default:
		m.mu.Unlock()
		return Silence(time.Second), nil
	}
	m.mu.Unlock()

	if res.Block != nil {
		select {
		case <-res.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Clip, nil
}

func (m *MockSynthesizer) ModelID() string {
	return "mock"
}

// SetFallback sets the result served once the queue is drained. Without
// one the mock serves a second of silence.
func (m *MockSynthesizer) SetFallback(res MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &res
}

// CallCount returns the number of Synthesize calls made.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Texts)
}

// Silence returns d of silent 24 kHz mono L16 audio, the same shape Gemini
// produces.
func Silence(d time.Duration) *Clip {
	frames := int(d.Seconds() * 24000)
	return &Clip{
		Data:     make([]byte, frames*2),
		MIMEType: geminiDefaultMIME,
		Model:    "mock",
	}
}
