package driving

import (
	"context"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

// IndexService provides vector-index ingest and nearest-neighbour
// search over normalised papers.
type IndexService interface {
	// Ingest adds papers to the index, skipping papers whose identity
	// key is already present. Returns the number actually added; 0 is
	// a valid result for empty input or a full duplicate set.
	Ingest(ctx context.Context, papers []domain.Paper) (int, error)

	// Search returns up to topK papers ranked by ascending embedding
	// distance, ties broken by insertion order. topK must be >= 1.
	// An empty index yields an empty result, never an error.
	Search(ctx context.Context, query string, topK int) ([]domain.Paper, error)

	// Size returns the number of indexed papers.
	Size() int

	// Papers returns a copy of all indexed papers in insertion order.
	Papers() []domain.Paper
}
