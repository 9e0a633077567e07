package providers

import "context"

// NarrativeProvider generates a prose review report from a prompt. The single
// implementation talks to a hosted language model; tests substitute a stub.
type NarrativeProvider interface {
	GenerateNarrative(ctx context.Context, prompt string) (string, error)
}
