// Package cli provides the command-line interface for scholia.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scholia-cli/internal/core/services"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

// configStore and settings are initialised by the persistent pre-run
// and shared by all commands.
var (
	configStore *file.ConfigStore
	settings    domain.AppSettings
)

var rootCmd = &cobra.Command{
	Use:   "scholia",
	Short: "Citation-grounded research assistant",
	Long: `Scholia fetches research papers, indexes them in a local vector
store and answers questions with inline citations grounded in the
retrieved papers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		store, err := file.NewConfigStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}
		configStore = store
		settings = file.LoadAppSettings(store)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.scholia)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.scholia/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// retrievalStack bundles the services an answering command needs,
// together with the resources to release when done.
type retrievalStack struct {
	index    *services.IndexService
	sessions *services.SessionService
	answer   *services.AnswerService
	llm      driven.LLMService
	closers  []func() error
}

// Close releases the stack's resources in reverse acquisition order.
func (s *retrievalStack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// newIndexService wires the embedding provider and the persistent
// paper store into an index service.
func newIndexService(ctx context.Context) (*services.IndexService, []func() error, error) {
	embedder, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{embedder.Close}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		embedder.Close()
		return nil, nil, fmt.Errorf("opening paper store: %w", err)
	}
	closers = append(closers, store.Close)

	index, err := services.NewIndexService(ctx, embedder, store)
	if err != nil {
		store.Close()
		embedder.Close()
		return nil, nil, fmt.Errorf("loading index: %w", err)
	}

	logger.Debug("index loaded: %d papers", index.Size())
	return index, closers, nil
}

// newRetrievalStack wires the full answering pipeline: index, LLM,
// session manager and answer service.
func newRetrievalStack(ctx context.Context) (*retrievalStack, error) {
	index, closers, err := newIndexService(ctx)
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, err
	}
	closers = append(closers, llm.Close)

	sessions := services.NewSessionService()
	answer, err := services.NewAnswerService(index, llm, sessions, services.AnswerConfig{
		TopK:   settings.Retrieval.TopK,
		FetchK: settings.Retrieval.FetchK,
	})
	if err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, err
	}

	return &retrievalStack{
		index:    index,
		sessions: sessions,
		answer:   answer,
		llm:      llm,
		closers:  closers,
	}, nil
}
