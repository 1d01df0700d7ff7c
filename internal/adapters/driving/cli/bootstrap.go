package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docchat-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/loader"
	pdfloader "github.com/custodia-labs/docchat-cli/internal/adapters/driven/loader/pdf"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/loader/plaintext"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/trace"
	vectormem "github.com/custodia-labs/docchat-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/logger"
	"github.com/custodia-labs/docchat-cli/internal/splitter/recursive"
)

// ensureServices wires the full chat pipeline from configuration.
// The returned cleanup releases the AI service connections. When a
// test has already injected a chatService this is a no-op.
func ensureServices() (func(), error) {
	if chatService != nil {
		return func() {}, nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("Config loaded from %s", store.Path())

	embedSettings, llmSettings := aiSettings(store)

	embedder, err := ai.CreateAndValidateEmbeddingService(embedSettings)
	if err != nil {
		return nil, err
	}
	llm, err := ai.CreateAndValidateLLMService(llmSettings)
	if err != nil {
		embedder.Close()
		return nil, err
	}
	logger.Debug("Embedding model: %s, LLM model: %s", embedder.ModelName(), llm.ModelName())

	chat := chatSettings(store)
	split, err := recursive.New(
		recursive.WithChunkSize(chat.ChunkSize),
		recursive.WithOverlap(chat.ChunkOverlap),
	)
	if err != nil {
		embedder.Close()
		llm.Close()
		return nil, fmt.Errorf("configure splitter: %w", err)
	}

	loaders := loader.NewRegistry()
	loaders.Register(plaintext.New())
	loaders.Register(pdfloader.New())

	svc := services.NewChatService(
		loaders,
		split,
		embedder,
		llm,
		func() driven.VectorIndex { return vectormem.New() },
		chat,
	)

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	prompts, err := configfile.NewPromptStore(promptDir)
	if err != nil {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	} else {
		svc.SetPromptStore(prompts)
	}
	svc.SetTracer(trace.NewLogTracer())

	chatService = svc
	return func() {
		embedder.Close()
		llm.Close()
		chatService = nil
	}, nil
}

// aiSettings reads provider configuration, letting environment
// variables supply API keys that should stay out of the config file.
func aiSettings(store driven.ConfigStore) (*domain.EmbeddingSettings, *domain.LLMSettings) {
	embed := &domain.EmbeddingSettings{
		Provider: provider(store.GetString("embedding.provider"), domain.AIProviderOllama),
		Model:    store.GetString("embedding.model"),
		BaseURL:  store.GetString("embedding.base_url"),
		APIKey:   store.GetString("embedding.api_key"),
	}
	llm := &domain.LLMSettings{
		Provider: provider(store.GetString("llm.provider"), domain.AIProviderOllama),
		Model:    store.GetString("llm.model"),
		BaseURL:  store.GetString("llm.base_url"),
		APIKey:   store.GetString("llm.api_key"),
	}

	if embed.APIKey == "" && embed.Provider == domain.AIProviderOpenAI {
		embed.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	switch {
	case llm.APIKey != "":
	case llm.Provider == domain.AIProviderOpenAI:
		llm.APIKey = os.Getenv("OPENAI_API_KEY")
	case llm.Provider == domain.AIProviderAnthropic:
		llm.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return embed, llm
}

// chatSettings reads retrieval pipeline tuning from the config store.
// Unset keys fall back to the built-in defaults.
func chatSettings(store driven.ConfigStore) domain.ChatSettings {
	return domain.ChatSettings{
		ChunkSize:    store.GetInt("chat.chunk_size"),
		ChunkOverlap: store.GetInt("chat.chunk_overlap"),
		TopK:         store.GetInt("chat.top_k"),
		MaxFileSize:  int64(store.GetInt("chat.max_file_size")),
	}.Normalised()
}

// provider parses a provider name, falling back when unset or invalid.
func provider(name string, fallback domain.AIProvider) domain.AIProvider {
	if name == "" {
		return fallback
	}
	p := domain.AIProvider(name)
	if !p.IsValid() {
		logger.Warn("Unknown AI provider %q, using %s", name, fallback)
		return fallback
	}
	return p
}
