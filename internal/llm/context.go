package llm

import "context"

// Purpose says which part of QuizGenius issued a model call. It is
// carried on the context so the logging decorator can attribute every
// request without widening Request.
type Purpose string

const (
	PurposeQuizGeneration Purpose = "quiz-generation"
	PurposeKeyCheck       Purpose = "key-check"

	// PurposeUnlabelled is reported for calls made without WithPurpose.
	PurposeUnlabelled Purpose = "unlabelled"
)

type purposeCtxKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeCtxKey{}, p)
}

// PurposeFrom reports the call purpose stored on ctx.
func PurposeFrom(ctx context.Context) Purpose {
	p, ok := ctx.Value(purposeCtxKey{}).(Purpose)
	if !ok || p == "" {
		return PurposeUnlabelled
	}
	return p
}
