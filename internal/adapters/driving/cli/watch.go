package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/scholia-cli/internal/core/services"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and index new papers as they land",
	Long: `Watches a directory tree for new or changed .txt and .md files and
indexes each one as it appears. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	index, closers, err := newIndexService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	source := filesystem.NewSource()
	ingest, err := services.NewIngestService(source, index)
	if err != nil {
		return err
	}

	watcher, err := filesystem.NewWatcher(args[0])
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Index whatever is already there before waiting for changes.
	summary, err := ingest.FetchAndIndex(ctx, args, 0)
	if err != nil {
		return fmt.Errorf("initial indexing failed: %w", err)
	}
	cmd.Printf("Indexed %d existing papers. Watching %s (Ctrl-C to stop)...\n",
		summary.Added, args[0])

	err = watcher.Watch(ctx, func(path string) {
		s, err := ingest.FetchAndIndex(ctx, []string{path}, 0)
		if err != nil {
			logger.Warn("indexing %s: %v", path, err)
			return
		}
		if s.Added > 0 {
			cmd.Printf("Indexed %s (%d papers total)\n", path, index.Size())
		}
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
