package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/source/arxiv"
	"github.com/custodia-labs/scholia-cli/internal/core/services"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

var fetchMax int

var fetchCmd = &cobra.Command{
	Use:   "fetch [keywords...]",
	Short: "Fetch papers from arXiv and index them",
	Long: `Searches the arXiv API for papers matching the keywords, normalises
the results and adds them to the local vector index. Papers already
present (same title) are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchMax, "max", "n", 10, "maximum number of papers to fetch")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	source := arxiv.NewSource(arxiv.Config{})
	ingest, err := services.NewIngestService(source, index)
	if err != nil {
		return err
	}

	logger.Info("fetching up to %d papers for %q", fetchMax, strings.Join(args, " "))
	summary, err := ingest.FetchAndIndex(ctx, args, fetchMax)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	cmd.Printf("Fetched %d, indexed %d new, skipped %d duplicates",
		summary.Fetched, summary.Added, summary.Skipped)
	if summary.Dropped > 0 {
		cmd.Printf(", dropped %d unusable", summary.Dropped)
	}
	cmd.Println()
	cmd.Printf("Index now holds %d papers.\n", index.Size())
	return nil
}
