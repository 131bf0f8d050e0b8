package llm

import "context"

type labelsKey struct{}

// callLabels tag a provider call for the event store and the log.
type callLabels struct {
	purpose string
	concept string
}

func labelsFrom(ctx context.Context) callLabels {
	l, _ := ctx.Value(labelsKey{}).(callLabels)
	return l
}

// WithPurpose tags calls made with ctx, e.g. PurposeExplanation.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	l := labelsFrom(ctx)
	l.purpose = purpose
	return context.WithValue(ctx, labelsKey{}, l)
}

// WithConcept tags calls made with ctx with the symbol of the concept
// they serve.
func WithConcept(ctx context.Context, symbol string) context.Context {
	l := labelsFrom(ctx)
	l.concept = symbol
	return context.WithValue(ctx, labelsKey{}, l)
}

// PurposeFrom returns the purpose tag, "unknown" when unset.
func PurposeFrom(ctx context.Context) string {
	if p := labelsFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// ConceptFrom returns the concept tag, empty outside a session.
func ConceptFrom(ctx context.Context) string {
	return labelsFrom(ctx).concept
}
