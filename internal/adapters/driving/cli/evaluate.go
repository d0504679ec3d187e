package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/services"
)

var evalCSVPath string

var evalCmd = &cobra.Command{
	Use:   "eval [records.json]",
	Short: "Score answer quality with LLM-judged metrics",
	Long: `Reads a JSON array of evaluation records (question, answer, contexts
and optional ground_truth) and scores each against RAG quality
metrics. Context recall runs only when every record has a ground
truth. Use --csv to also export the records for offline analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalCSVPath, "csv", "", "also export records to a CSV file")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}

	var records []domain.EvaluationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %s: %w", args[0], domain.ErrInvalidInput)
	}

	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		return err
	}
	defer llm.Close()

	evaluator, err := services.NewEvaluationService(llm)
	if err != nil {
		return err
	}

	report, err := evaluator.Evaluate(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	cmd.Printf("Evaluated %d records with %s\n\n", len(records), llm.ModelName())
	means := report.Aggregate()
	for _, metric := range report.Metrics {
		mean, ok := means[metric]
		if !ok {
			cmd.Printf("  %-18s (no valid scores)\n", metric)
			continue
		}
		scored := 0
		for _, v := range report.Scores[metric] {
			if !math.IsNaN(v) {
				scored++
			}
		}
		cmd.Printf("  %-18s %.3f  (%d/%d records)\n", metric, mean, scored, len(records))
	}

	if len(report.Warnings) > 0 {
		cmd.Println()
		for _, w := range report.Warnings {
			cmd.Printf("Warning: %s\n", w)
		}
	}

	if evalCSVPath != "" {
		if err := evaluator.Save(records, evalCSVPath); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
		cmd.Printf("\nRecords exported to %s\n", evalCSVPath)
	}
	return nil
}
