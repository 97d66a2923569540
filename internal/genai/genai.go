// Package genai provides the generative fallback for messages no catalog
// product matches. Gemini is the primary provider with an optional
// OpenAI-compatible secondary; both failing degrades to a canned apology
// at the pipeline, never an error to the transport.
package genai

import "context"

// Completer generates a short reply for a message the catalog could not
// answer. displayName personalizes the reply.
type Completer interface {
	Complete(ctx context.Context, message, displayName string) (string, error)
	Provider() string
}

// Provider names used in logs and metrics.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)
