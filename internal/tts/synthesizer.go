// Package tts turns narration text into encoded speech audio.
package tts

import (
	"context"
	"fmt"

	"github.com/abhisek/futable/internal/llm"
)

// Clip is encoded audio as returned by a speech backend.
type Clip struct {
	Data     []byte
	MIMEType string

	Model string
	Usage llm.Usage
}

// Synthesizer produces speech for a piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Clip, error)
	ModelID() string
}

// FetchError wraps any failure to obtain speech.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
