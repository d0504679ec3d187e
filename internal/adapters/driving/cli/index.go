package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/scholia-cli/internal/core/services"
)

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Index local paper files",
	Long: `Loads .txt and .md files from the given paths (files or directories)
and adds them to the local vector index. The filename becomes the
paper title; files whose title is already indexed are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index size",
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
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

	summary, err := ingest.FetchAndIndex(ctx, args, 0)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Loaded %d files, indexed %d new, skipped %d duplicates",
		summary.Fetched, summary.Added, summary.Skipped)
	if summary.Dropped > 0 {
		cmd.Printf(", dropped %d empty", summary.Dropped)
	}
	cmd.Println()
	cmd.Printf("Index now holds %d papers.\n", index.Size())
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
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

	cmd.Printf("%d papers indexed.\n", index.Size())
	return nil
}
