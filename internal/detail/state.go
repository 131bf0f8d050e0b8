package detail

import (
	"time"

	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/explain"
)

// ExplanationStatus tracks the explanation fetch of a session.
type ExplanationStatus int

const (
	ExplanationPending ExplanationStatus = iota
	ExplanationReady
	ExplanationFailed
)

func (s ExplanationStatus) String() string {
	switch s {
	case ExplanationPending:
		return "pending"
	case ExplanationReady:
		return "ready"
	case ExplanationFailed:
		return "failed"
	}
	return "unknown"
}

// AudioStatus tracks speech playback of a session.
type AudioStatus int

const (
	AudioIdle AudioStatus = iota
	AudioLoading
	AudioPlaying
	AudioFailed
)

func (s AudioStatus) String() string {
	switch s {
	case AudioIdle:
		return "idle"
	case AudioLoading:
		return "loading"
	case AudioPlaying:
		return "playing"
	case AudioFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a copy of the visible state of the active session. The
// zero value means no session is open.
type Snapshot struct {
	Active    bool
	SessionID string
	Concept   catalog.Concept
	OpenedAt  time.Time

	Status         ExplanationStatus
	Explanation    *explain.Explanation
	ExplanationErr error

	Audio         AudioStatus
	AudioErr      error
	AudioCached   bool
	Plays         int
	SpeechFetches int
}
