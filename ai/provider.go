package ai

import "context"

// Provider is a text-generation backend that returns raw model output for a
// prompt. Implementations handle transport, auth and provider-side rate
// limits; callers handle parsing and retries.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// GenerateJSON sends a prompt expecting a JSON response and returns the
	// raw response text.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
