package service

import (
	"context"
)

// TextGenerator produces a completion for a prompt and never fails; when no
// model answers it returns a marked simulation (see llama.IsSimulated).
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) string
}

// ModelClient is the backend's view of the discovered model server
type ModelClient interface {
	TextGenerator

	// Available returns the current model server URL, probing if needed
	Available(ctx context.Context) (string, bool)
}

// Completer is the model server's upstream: an OpenAI-compatible endpoint
type Completer interface {
	// Complete returns the full completion for prompt
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)

	// CompleteStream calls callback for every chunk received
	CompleteStream(ctx context.Context, prompt string, maxTokens int, temperature float64, callback StreamCallback) error

	// IsEnabled returns whether the upstream is configured and ready
	IsEnabled() bool

	// ModelName returns the upstream model identifier
	ModelName() string
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content (always present in streaming)
	Content string

	// Thinking/reasoning content (reasoning models only)
	ThinkingContent string

	// Role (assistant, user, system)
	Role string

	// Whether this is the final chunk
	Done bool
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// Ensure OpenAIClient implements Completer
var _ Completer = (*OpenAIClient)(nil)
