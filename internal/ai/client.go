package ai

import "context"

// Generator produces text for a fully composed prompt. Implementations must
// return an error for any failure mode (auth, rate limit, network); callers
// decide how to fall back.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
