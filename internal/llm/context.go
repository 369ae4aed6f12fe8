package llm

import "context"

// Purpose labels why a request was made. It is recorded with every request
// event and drives the per-purpose usage report.
type Purpose string

const (
	// PurposeCoach marks requests for coaching notes.
	PurposeCoach Purpose = "coach"

	// PurposeUnlabeled is reported for requests whose context carries no purpose.
	PurposeUnlabeled Purpose = "unlabeled"
)

type purposeKey struct{}

// WithPurpose returns a context whose requests are recorded under p.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose set by WithPurpose, or PurposeUnlabeled.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnlabeled
}
