package driven

import (
	"context"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

// PaperSource yields raw paper records from an external provider.
// Fields on the returned records are heterogeneous and optional; the
// normaliser is the only consumer and supplies defaults.
//
// Implementations: arXiv API search, local file loading.
type PaperSource interface {
	// Fetch retrieves up to max raw records matching the keywords.
	// For file-backed sources the keywords identify paths instead.
	Fetch(ctx context.Context, keywords []string, max int) ([]domain.RawPaper, error)

	// Name identifies the source for logging and summaries.
	Name() string
}
