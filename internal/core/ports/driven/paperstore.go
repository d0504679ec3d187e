package driven

import (
	"context"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

// StoredPaper pairs a paper with its embedding as held by a PaperStore.
type StoredPaper struct {
	// Paper is the stored paper.
	Paper domain.Paper

	// Embedding is the vector computed from the paper's composed text.
	Embedding []float32
}

// PaperStore persists (identity key -> embedding, paper) pairs for the
// vector index. The index service is the sole writer; no other
// component mutates store state.
//
// Implementations: SQLite (durable across restarts) and in-memory
// (process lifetime only).
type PaperStore interface {
	// Save stores a paper and its embedding. Insertion order is
	// preserved and returned by List.
	Save(ctx context.Context, paper domain.Paper, embedding []float32) error

	// Has reports whether a paper with the given identity key exists.
	Has(ctx context.Context, identityKey string) (bool, error)

	// List returns all stored papers in insertion order.
	List(ctx context.Context) ([]StoredPaper, error)

	// Count returns the number of stored papers.
	Count(ctx context.Context) (int, error)

	// Clear removes all stored papers.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
