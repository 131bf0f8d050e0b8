package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "symbol", "action",
	"explanation_status", "plays", "speech_fetches", "duration_ms",
}

func (r *eventRepo) AppendConceptSession(ctx context.Context, data ConceptSessionEventData) error {
	if data.SessionID == "" || data.Symbol == "" {
		return fmt.Errorf("concept session event requires session id and symbol")
	}
	if data.Action != ActionStart && data.Action != ActionEnd {
		return fmt.Errorf("unknown session action %q", data.Action)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(sessionEventsTable).
		Columns(sessionEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.Symbol, data.Action,
			data.ExplanationStatus, data.Plays, data.SpeechFetches, data.DurationMs,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save concept session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]ConceptSessionEvent, error) {
	sel := sqlite().Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.querySessions(ctx, sel)
}

func (r *eventRepo) ConceptStats(ctx context.Context) ([]ConceptStat, error) {
	sel := sqlite().Select(sessionEventColumns...).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.EQ("action", ActionEnd)).
		OrderBy("sequence")
	ends, err := r.querySessions(ctx, sel)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]*ConceptStat)
	for _, e := range ends {
		st, ok := bySymbol[e.Symbol]
		if !ok {
			st = &ConceptStat{Symbol: e.Symbol}
			bySymbol[e.Symbol] = st
		}
		st.Sessions++
		st.Plays += e.Plays
		st.SpeechFetches += e.SpeechFetches
		st.TotalMs += e.DurationMs
		if e.Timestamp.After(st.LastOpened) {
			st.LastOpened = e.Timestamp
		}
	}

	out := make([]ConceptStat, 0, len(bySymbol))
	for _, st := range bySymbol {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sessions != out[j].Sessions {
			return out[i].Sessions > out[j].Sessions
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out, nil
}

func (r *eventRepo) querySessions(ctx context.Context, sel *entsql.Selector) ([]ConceptSessionEvent, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []ConceptSessionEvent
	for rows.Next() {
		var e ConceptSessionEvent
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Symbol, &e.Action,
			&e.ExplanationStatus, &e.Plays, &e.SpeechFetches, &e.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
