package driven

import "context"

// LLMService provides language model generation for question rewriting
// and answer synthesis.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-3.5)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a complete text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStream produces a token-by-token completion.
	// The returned channel is closed after the final token. Consumers
	// may stop early by cancelling the context; tokens already emitted
	// are not rolled back.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan StreamToken, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before accepting an upload.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// StreamToken is a single fragment of a streaming completion.
type StreamToken struct {
	// Content is the token text. May be empty on the final token.
	Content string

	// Done is true on the last token of the stream.
	Done bool

	// Err carries a mid-stream failure. When set, the stream ends.
	Err error
}
