package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			Model:    "nomic-embed-text",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		defer svc.Close()

		assert.Equal(t, "nomic-embed-text", svc.ModelName())
		assert.Equal(t, 768, svc.Dimensions())
	})

	t.Run("openai requires api key", func(t *testing.T) {
		_, err := CreateEmbeddingService(domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
		})
		assert.Error(t, err)
	})

	t.Run("anthropic has no embeddings", func(t *testing.T) {
		_, err := CreateEmbeddingService(domain.EmbeddingSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "sk-ant-test",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not support embeddings")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := CreateEmbeddingService(domain.EmbeddingSettings{Provider: "cohere"})
		assert.Error(t, err)
	})
}

func TestCreateLLMService(t *testing.T) {
	t.Run("every supported provider constructs", func(t *testing.T) {
		for _, provider := range domain.AllLLMProviders() {
			svc, err := CreateLLMService(domain.LLMSettings{
				Provider: provider,
				APIKey:   "test-key",
			})
			require.NoError(t, err, provider)
			require.NotNil(t, svc, provider)
			svc.Close()
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := CreateLLMService(domain.LLMSettings{Provider: "cohere"})
		assert.Error(t, err)
	})
}

func TestCreateAndValidate_NotConfigured(t *testing.T) {
	_, err := CreateAndValidateEmbeddingService(domain.EmbeddingSettings{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = CreateAndValidateLLMService(domain.LLMSettings{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
