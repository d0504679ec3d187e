package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// Ensure EvaluationService implements the interface.
var _ driving.EvaluationService = (*EvaluationService)(nil)

// defaultEvalWorkers bounds concurrent record scoring. Records are
// independent, so they can be scored in parallel.
const defaultEvalWorkers = 4

// Judge prompts. Each asks the model for a JSON object with a score in
// [0,1] and a short reason, in the style of standard RAG quality
// metrics.
const (
	faithfulnessPrompt = `You are an evaluation expert. Assess whether the answer is faithful to the provided context.

Context:
%[3]s

Answer:
%[2]s

Criteria:
- Is every claim in the answer supported by the context?
- Does the answer add information absent from the context?
- Does the answer distort the context?

Return a JSON object: {"score": <0 to 1, 1 means fully faithful>, "reason": "<short explanation>"}`

	answerRelevancyPrompt = `You are an evaluation expert. Assess whether the answer addresses the question.

Question:
%[1]s

Answer:
%[2]s

Criteria:
- Does the answer directly address the question?
- Does the answer avoid excessive irrelevant material?

Return a JSON object: {"score": <0 to 1, 1 means highly relevant>, "reason": "<short explanation>"}`

	contextPrecisionPrompt = `You are an evaluation expert. Assess how much of the retrieved context is actually useful for answering the question.

Question:
%[1]s

Context:
%[3]s

Criteria:
- What fraction of the context passages are relevant to the question?
- Is the useful material ranked ahead of the noise?

Return a JSON object: {"score": <0 to 1, 1 means all context is useful>, "reason": "<short explanation>"}`

	contextRecallPrompt = `You are an evaluation expert. Assess whether the retrieved context covers the information needed to produce the reference answer.

Question:
%[1]s

Reference answer:
%[4]s

Context:
%[3]s

Criteria:
- Can every claim in the reference answer be attributed to the context?

Return a JSON object: {"score": <0 to 1, 1 means full coverage>, "reason": "<short explanation>"}`
)

// judgeResult is the JSON shape expected back from the judge model.
type judgeResult struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// jsonObject finds the first JSON object in a model response, which
// may be wrapped in prose or a code fence.
var jsonObject = regexp.MustCompile(`\{[^{}]*\}`)

// bareScore matches "score: 0.85" style output as a last resort.
var bareScore = regexp.MustCompile(`(?i)score[^0-9]*([0-9]*\.?[0-9]+)`)

// EvaluationService scores batches of RAG transcripts using an LLM as
// judge. Metrics are pure functions of their record, so records are
// scored concurrently; failures mark single cells as missing and never
// abort the batch.
type EvaluationService struct {
	llm     driven.LLMService
	workers int
}

// NewEvaluationService creates an evaluation service over the given
// judge model.
func NewEvaluationService(llm driven.LLMService) (*EvaluationService, error) {
	if llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	return &EvaluationService{llm: llm, workers: defaultEvalWorkers}, nil
}

// Evaluate scores every record in the batch. The metric set includes
// context recall only when every record carries a ground truth.
func (s *EvaluationService) Evaluate(
	ctx context.Context, records []domain.EvaluationRecord,
) (*domain.EvaluationReport, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty batch: %w", domain.ErrInvalidInput)
	}

	logger.Section("Evaluation")

	metrics := []string{
		domain.MetricFaithfulness,
		domain.MetricAnswerRelevancy,
		domain.MetricContextPrecision,
	}
	if domain.AllGroundTruths(records) {
		metrics = append(metrics, domain.MetricContextRecall)
	} else {
		logger.Info("Ground truth missing on at least one record; context_recall skipped")
	}

	report := &domain.EvaluationReport{
		Metrics: metrics,
		Scores:  make(map[string][]float64, len(metrics)),
	}
	for _, m := range metrics {
		cells := make([]float64, len(records))
		for i := range cells {
			cells[i] = math.NaN()
		}
		report.Scores[m] = cells
	}

	var (
		wg       sync.WaitGroup
		warnMu   sync.Mutex
		sem      = make(chan struct{}, s.workers)
		warnings []string
	)

	for i := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			for _, metric := range metrics {
				score, err := s.scoreMetric(ctx, metric, records[i])
				if err != nil {
					msg := fmt.Sprintf("%s, record %d: %v", metric, i, err)
					logger.Warn("Evaluation: %s", msg)
					warnMu.Lock()
					warnings = append(warnings, msg)
					warnMu.Unlock()
					continue // cell stays NaN
				}
				report.Scores[metric][i] = score
			}
		}(i)
	}
	wg.Wait()

	report.Warnings = warnings

	// Surface metrics with no valid values rather than averaging nothing.
	aggregate := report.Aggregate()
	for _, m := range metrics {
		if _, ok := aggregate[m]; !ok {
			msg := fmt.Sprintf("%s: no valid scores in batch", m)
			logger.Warn("Evaluation: %s", msg)
			report.Warnings = append(report.Warnings, msg)
		}
	}

	return report, nil
}

// scoreMetric runs one judge call for a single metric/record cell.
func (s *EvaluationService) scoreMetric(
	ctx context.Context, metric string, record domain.EvaluationRecord,
) (float64, error) {
	var template string
	switch metric {
	case domain.MetricFaithfulness:
		template = faithfulnessPrompt
	case domain.MetricAnswerRelevancy:
		template = answerRelevancyPrompt
	case domain.MetricContextPrecision:
		template = contextPrecisionPrompt
	case domain.MetricContextRecall:
		template = contextRecallPrompt
	default:
		return 0, fmt.Errorf("unknown metric %q: %w", metric, domain.ErrInvalidInput)
	}

	groundTruth := ""
	if record.GroundTruth != nil {
		groundTruth = *record.GroundTruth
	}
	prompt := fmt.Sprintf(template,
		record.Question, record.Answer, strings.Join(record.Contexts, "\n\n"), groundTruth)

	output, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 500})
	if err != nil {
		return 0, fmt.Errorf("judge call: %w: %w", domain.ErrMetricFailed, err)
	}

	score, err := parseJudgeScore(output)
	if err != nil {
		return 0, fmt.Errorf("parse judge output: %w: %w", domain.ErrMetricFailed, err)
	}
	return score, nil
}

// parseJudgeScore extracts a [0,1] score from a judge response.
// Accepts a JSON object or a bare "score: N" mention; clamps to [0,1].
func parseJudgeScore(output string) (float64, error) {
	output = strings.TrimSpace(output)

	if match := jsonObject.FindString(output); match != "" {
		var result judgeResult
		if err := json.Unmarshal([]byte(match), &result); err == nil {
			return clampScore(result.Score), nil
		}
	}

	if match := bareScore.FindStringSubmatch(output); len(match) == 2 {
		score, err := strconv.ParseFloat(match[1], 64)
		if err == nil {
			return clampScore(score), nil
		}
	}

	return 0, fmt.Errorf("no score found in %q", truncate(output, 120))
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Save writes the batch to a CSV file: one row per record, one column
// per context slot (ragged contexts right-padded with empty strings),
// and a ground_truth column only when every record has one.
func (s *EvaluationService) Save(records []domain.EvaluationRecord, path string) error {
	if len(records) == 0 {
		return fmt.Errorf("empty batch: %w", domain.ErrInvalidInput)
	}

	maxContexts := 0
	for _, r := range records {
		if len(r.Contexts) > maxContexts {
			maxContexts = len(r.Contexts)
		}
	}
	withGroundTruth := domain.AllGroundTruths(records)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"question", "answer"}
	for i := 1; i <= maxContexts; i++ {
		header = append(header, fmt.Sprintf("context_%d", i))
	}
	if withGroundTruth {
		header = append(header, "ground_truth")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Question, r.Answer}
		for i := 0; i < maxContexts; i++ {
			if i < len(r.Contexts) {
				row = append(row, r.Contexts[i])
			} else {
				row = append(row, "")
			}
		}
		if withGroundTruth {
			row = append(row, *r.GroundTruth)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	logger.Info("Saved %d evaluation record(s) to %s", len(records), path)
	return nil
}
