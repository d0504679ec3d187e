package driving

import (
	"context"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

// EvaluationService scores batches of question/answer/context records
// against RAG quality metrics and exports them for offline analysis.
type EvaluationService interface {
	// Evaluate scores every record in the batch. Context recall is
	// included only when every record carries a ground truth. Failures
	// are localised: a failed metric/record cell is marked missing and
	// the rest of the batch proceeds.
	Evaluate(ctx context.Context, records []domain.EvaluationRecord) (*domain.EvaluationReport, error)

	// Save writes the batch to a CSV file: one row per record, one
	// column per context slot (ragged contexts right-padded), and a
	// ground_truth column only when every record has one.
	Save(records []domain.EvaluationRecord, path string) error
}
