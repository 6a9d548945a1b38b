package llm

import "context"

type purposeKey struct{}

// PurposeNarration labels requests made while narrating a plan.
const PurposeNarration = "narration"

// WithPurpose tags ctx so recorded events say why a request was made.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
