package domain

import "math"

// Metric names produced by the evaluator.
const (
	MetricFaithfulness     = "faithfulness"
	MetricAnswerRelevancy  = "answer_relevancy"
	MetricContextPrecision = "context_precision"
	MetricContextRecall    = "context_recall"
)

// EvaluationRecord is one (question, answer, contexts, ground truth)
// tuple scored by the evaluator. GroundTruth is optional; metric-set
// selection is all-or-nothing across a batch.
type EvaluationRecord struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Contexts    []string `json:"contexts"`
	GroundTruth *string  `json:"ground_truth,omitempty"`
}

// AllGroundTruths reports whether every record in the batch carries a
// non-nil ground truth. Context recall is only computed when this holds.
func AllGroundTruths(records []EvaluationRecord) bool {
	for _, r := range records {
		if r.GroundTruth == nil {
			return false
		}
	}
	return len(records) > 0
}

// EvaluationReport holds per-record metric scores for a batch.
// A score of NaN marks a cell where the metric failed to compute.
type EvaluationReport struct {
	// Metrics lists the metric names in reporting order.
	Metrics []string

	// Scores maps metric name to one score per record, aligned with
	// the input batch. Failed cells are NaN.
	Scores map[string][]float64

	// Warnings collects per-cell failures and skipped aggregates.
	Warnings []string
}

// Aggregate returns the arithmetic mean of each metric across the
// batch, skipping NaN cells. Metrics with no valid values are omitted.
func (r *EvaluationReport) Aggregate() map[string]float64 {
	out := make(map[string]float64, len(r.Metrics))
	for _, name := range r.Metrics {
		var sum float64
		var n int
		for _, v := range r.Scores[name] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			out[name] = sum / float64(n)
		}
	}
	return out
}
