package store

import (
	"context"
	"time"
)

// QueryOpts filters LLM event queries.
type QueryOpts struct {
	Limit      int    // max results (0 = unlimited)
	Purpose    string // exact match when set
	Model      string // exact match when set
	FailedOnly bool
	After      int64 // sequence > After
}

// LLMRequestEventData captures a single generation or speech call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData row.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageRow aggregates calls grouped by a single key (purpose or model).
type UsageRow struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Session actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// ConceptSessionEventData captures a concept detail session boundary.
type ConceptSessionEventData struct {
	SessionID         string
	Symbol            string
	Action            string
	ExplanationStatus string
	Plays             int
	SpeechFetches     int
	DurationMs        int64
}

// ConceptSessionEvent is a stored ConceptSessionEventData row.
type ConceptSessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ConceptSessionEventData
}

// ConceptStat summarizes the finished sessions of one concept.
type ConceptStat struct {
	Symbol        string
	Sessions      int
	Plays         int
	SpeechFetches int
	TotalMs       int64
	LastOpened    time.Time
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records a generation or speech call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]UsageRow, error)
	LLMUsageByModel(ctx context.Context) ([]UsageRow, error)

	// AppendConceptSession records a session start or end.
	AppendConceptSession(ctx context.Context, data ConceptSessionEventData) error

	// RecentSessions returns the latest session rows, newest first.
	RecentSessions(ctx context.Context, limit int) ([]ConceptSessionEvent, error)

	// ConceptStats aggregates finished sessions per concept symbol.
	ConceptStats(ctx context.Context) ([]ConceptStat, error)
}
