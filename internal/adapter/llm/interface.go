// Package llm provides an abstraction for text-generation providers.
package llm

import "context"

// CompletionRequest describes a single prompt completion.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Client is the generation capability used by the classifier and the
// response generators.
type Client interface {
	// Complete sends the prompt and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Ensure implementations satisfy the interface.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*RoutingClient)(nil)
	_ Client = (*MockClient)(nil)
)
