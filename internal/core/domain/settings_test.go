package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.False(t, AIProvider("bedrock").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("bogus").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	var nilSettings *EmbeddingSettings
	assert.False(t, nilSettings.IsConfigured())
	assert.False(t, (&EmbeddingSettings{}).IsConfigured())
	assert.True(t, (&EmbeddingSettings{Provider: AIProviderOllama}).IsConfigured())
}

func TestChatSettings_Normalised(t *testing.T) {
	got := ChatSettings{}.Normalised()

	assert.Equal(t, DefaultChunkSize, got.ChunkSize)
	assert.Equal(t, 0, got.ChunkOverlap) // zero overlap is a valid choice
	assert.Equal(t, DefaultTopK, got.TopK)
	assert.Equal(t, int64(DefaultMaxFileSize), got.MaxFileSize)

	custom := ChatSettings{ChunkSize: 500, ChunkOverlap: 100, TopK: 2, MaxFileSize: 1024}
	assert.Equal(t, custom, custom.Normalised())
}

func TestChatSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       ChatSettings
		wantErr bool
	}{
		{"defaults", ChatSettings{ChunkSize: 1000, ChunkOverlap: 200}, false},
		{"zero overlap", ChatSettings{ChunkSize: 100, ChunkOverlap: 0}, false},
		{"overlap equals size", ChatSettings{ChunkSize: 100, ChunkOverlap: 100}, true},
		{"overlap exceeds size", ChatSettings{ChunkSize: 100, ChunkOverlap: 150}, true},
		{"negative overlap", ChatSettings{ChunkSize: 100, ChunkOverlap: -1}, true},
		{"zero size", ChatSettings{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidChunking)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
