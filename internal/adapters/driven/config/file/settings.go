package file

import (
	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
)

// Configuration keys, stored as dot-notation TOML paths.
const (
	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingAPIKey   = "embedding.api_key"

	KeyLLMProvider = "llm.provider"
	KeyLLMModel    = "llm.model"
	KeyLLMBaseURL  = "llm.base_url"
	KeyLLMAPIKey   = "llm.api_key"

	KeyRetrievalTopK   = "retrieval.top_k"
	KeyRetrievalFetchK = "retrieval.fetch_k"
)

// LoadAppSettings reads application settings from a config store,
// falling back to defaults for anything unset.
func LoadAppSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if v := store.GetString(KeyEmbeddingProvider); v != "" {
		settings.Embedding.Provider = domain.AIProvider(v)
	}
	if v := store.GetString(KeyEmbeddingModel); v != "" {
		settings.Embedding.Model = v
	}
	if v := store.GetString(KeyEmbeddingBaseURL); v != "" {
		settings.Embedding.BaseURL = v
	}
	if v := store.GetString(KeyEmbeddingAPIKey); v != "" {
		settings.Embedding.APIKey = v
	}

	if v := store.GetString(KeyLLMProvider); v != "" {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v := store.GetString(KeyLLMModel); v != "" {
		settings.LLM.Model = v
	}
	if v := store.GetString(KeyLLMBaseURL); v != "" {
		settings.LLM.BaseURL = v
	}
	if v := store.GetString(KeyLLMAPIKey); v != "" {
		settings.LLM.APIKey = v
	}

	if v := store.GetInt(KeyRetrievalTopK); v > 0 {
		settings.Retrieval.TopK = v
	}
	if v := store.GetInt(KeyRetrievalFetchK); v > 0 {
		settings.Retrieval.FetchK = v
	}

	return settings
}
