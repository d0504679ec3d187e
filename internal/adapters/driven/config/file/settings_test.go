package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

func TestLoadAppSettings(t *testing.T) {
	t.Run("empty store yields defaults", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		settings := LoadAppSettings(store)

		assert.Equal(t, domain.DefaultAppSettings(), settings)
	})

	t.Run("stored values override defaults", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(KeyEmbeddingProvider, "openai"))
		require.NoError(t, store.Set(KeyEmbeddingModel, "text-embedding-3-small"))
		require.NoError(t, store.Set(KeyEmbeddingAPIKey, "sk-test"))
		require.NoError(t, store.Set(KeyLLMProvider, "ollama"))
		require.NoError(t, store.Set(KeyLLMModel, "llama3.2"))
		require.NoError(t, store.Set(KeyLLMBaseURL, "http://localhost:11434"))
		require.NoError(t, store.Set(KeyRetrievalTopK, int64(8)))
		require.NoError(t, store.Set(KeyRetrievalFetchK, int64(25)))

		settings := LoadAppSettings(store)

		assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
		assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
		assert.Equal(t, "sk-test", settings.Embedding.APIKey)
		assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
		assert.Equal(t, "llama3.2", settings.LLM.Model)
		assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
		assert.Equal(t, 8, settings.Retrieval.TopK)
		assert.Equal(t, 25, settings.Retrieval.FetchK)
	})

	t.Run("settings survive a reload from disk", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewConfigStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyLLMProvider, "anthropic"))
		require.NoError(t, store.Set(KeyLLMModel, "claude-3-5-haiku-latest"))
		require.NoError(t, store.Set(KeyLLMAPIKey, "sk-ant-test"))

		reopened, err := NewConfigStore(dir)
		require.NoError(t, err)

		settings := LoadAppSettings(reopened)
		assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
		assert.True(t, settings.LLM.IsConfigured())
	})
}
