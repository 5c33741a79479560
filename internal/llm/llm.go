// Package llm defines the language-generation service boundary.
package llm

import "context"

// Message is one chat message sent to the generation service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options holds generation parameters. Temperature 0 requests
// deterministic sampling.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Client issues one chat completion and returns the answer text.
type Client interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}
