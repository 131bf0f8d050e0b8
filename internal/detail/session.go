package detail

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/futable/internal/audio"
	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/explain"
	"github.com/abhisek/futable/internal/llm"
)

// session is the state of one opened concept. Fields are guarded by the
// controller mutex while the session is current. Once detached only the
// goroutine tearing it down touches it.
type session struct {
	id      string
	concept catalog.Concept
	opened  time.Time

	ctx    context.Context
	cancel context.CancelFunc

	status      ExplanationStatus
	explanation *explain.Explanation
	explErr     error

	audio    AudioStatus
	audioErr error
	buffer   *audio.Buffer
	output   audio.Output
	handle   audio.Handle

	// playGen identifies the current playback so a late natural-end
	// callback from an earlier one is ignored.
	playGen int

	plays   int
	fetches int
}

func newSession(concept catalog.Concept) *session {
	ctx, cancel := context.WithCancel(llm.WithConcept(context.Background(), concept.Symbol))
	return &session{
		id:      uuid.NewString(),
		concept: concept,
		opened:  time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		Active:         true,
		SessionID:      s.id,
		Concept:        s.concept,
		OpenedAt:       s.opened,
		Status:         s.status,
		ExplanationErr: s.explErr,
		Audio:          s.audio,
		AudioErr:       s.audioErr,
		AudioCached:    s.buffer != nil,
		Plays:          s.plays,
		SpeechFetches:  s.fetches,
	}
	if s.explanation != nil {
		exp := *s.explanation
		snap.Explanation = &exp
	}
	return snap
}
