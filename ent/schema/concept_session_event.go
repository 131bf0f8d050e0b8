package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ConceptSessionEvent records the start and end of a concept detail session.
type ConceptSessionEvent struct {
	ent.Schema
}

func (ConceptSessionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "concept_session_events"},
	}
}

func (ConceptSessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ConceptSessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID shared by the start and end rows"),
		field.String("symbol").
			NotEmpty(),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.String("explanation_status").
			Default("").
			Comment("Final explanation status (end only)"),
		field.Int("plays").
			Default(0).
			Comment("Playbacks started (end only)"),
		field.Int("speech_fetches").
			Default(0).
			Comment("Speech synthesis calls issued (end only)"),
		field.Int64("duration_ms").
			Default(0).
			Comment("Session wall-clock duration (end only)"),
	}
}

func (ConceptSessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("symbol", "action"),
	}
}
