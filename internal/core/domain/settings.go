package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// IsConfigured returns true if the settings name a valid provider.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider.IsValid()
}

// LLMSettings holds language model provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// IsConfigured returns true if the settings name a valid provider.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider.IsValid()
}

// Default chat pipeline parameters.
const (
	// DefaultChunkSize is the maximum passage length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the character overlap between passages.
	DefaultChunkOverlap = 200

	// DefaultTopK is the number of passages retrieved per question.
	DefaultTopK = 4

	// DefaultMaxFileSize is the upload size cap in bytes (20 MiB).
	DefaultMaxFileSize = 20 << 20
)

// ChatSettings holds the retrieval pipeline configuration.
type ChatSettings struct {
	// ChunkSize is the maximum passage length in characters.
	ChunkSize int

	// ChunkOverlap is the character overlap between passages.
	ChunkOverlap int

	// TopK is the number of passages retrieved per question.
	TopK int

	// MaxFileSize is the upload size cap in bytes.
	MaxFileSize int64
}

// Normalised returns a copy with zero values replaced by defaults.
func (s ChatSettings) Normalised() ChatSettings {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = DefaultChunkOverlap
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.MaxFileSize <= 0 {
		s.MaxFileSize = DefaultMaxFileSize
	}
	return s
}

// Validate reports configuration errors the pipeline cannot run with.
func (s ChatSettings) Validate() error {
	if s.ChunkSize <= 0 {
		return ErrInvalidChunking
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return ErrInvalidChunking
	}
	return nil
}
