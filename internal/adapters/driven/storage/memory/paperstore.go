// Package memory provides in-memory storage adapters, used when no
// data directory is configured and in tests. State lives for the
// process lifetime only.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
)

// Ensure PaperStore implements the interface.
var _ driven.PaperStore = (*PaperStore)(nil)

// PaperStore is an in-memory implementation of driven.PaperStore.
type PaperStore struct {
	mu     sync.RWMutex
	stored []driven.StoredPaper
	byKey  map[string]bool
}

// NewPaperStore creates an empty in-memory paper store.
func NewPaperStore() *PaperStore {
	return &PaperStore{byKey: make(map[string]bool)}
}

// Save stores a paper and its embedding, preserving insertion order.
// Re-saving an existing identity key is a no-op.
func (s *PaperStore) Save(_ context.Context, paper domain.Paper, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byKey[paper.IdentityKey] {
		return nil
	}
	s.byKey[paper.IdentityKey] = true

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	s.stored = append(s.stored, driven.StoredPaper{Paper: paper, Embedding: vec})
	return nil
}

// Has reports whether a paper with the given identity key exists.
func (s *PaperStore) Has(_ context.Context, identityKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byKey[identityKey], nil
}

// List returns all stored papers in insertion order.
func (s *PaperStore) List(_ context.Context) ([]driven.StoredPaper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]driven.StoredPaper, len(s.stored))
	copy(out, s.stored)
	return out, nil
}

// Count returns the number of stored papers.
func (s *PaperStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stored), nil
}

// Clear removes all stored papers.
func (s *PaperStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = nil
	s.byKey = make(map[string]bool)
	return nil
}

// Close releases resources. No-op for the in-memory store.
func (s *PaperStore) Close() error {
	return nil
}
