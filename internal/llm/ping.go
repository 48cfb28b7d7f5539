package llm

import (
	"context"
	"errors"
)

// Ping sends a minimal round trip to confirm the provider accepts its
// credential. A truncated reply still proves the key works.
func Ping(ctx context.Context, p Provider) error {
	_, err := p.Generate(WithPurpose(ctx, PurposeKeyCheck), Request{
		Parts:     []Part{TextPart("ping")},
		MaxTokens: 16,
	})
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return nil
	}
	return err
}
