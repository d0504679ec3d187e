package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// indexEntry is one indexed paper with its embedding, held in
// insertion order.
type indexEntry struct {
	paper domain.Paper
	vec   []float32
}

// IndexService is an exact nearest-neighbour vector index over
// normalised papers. Vectors live in memory; every addition is written
// through to the paper store, and the index is rebuilt from the store
// on startup. Ingest is serialised; Search is read-concurrent.
type IndexService struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	store    driven.PaperStore
	entries  []indexEntry
	byKey    map[string]int
}

// NewIndexService creates a vector index backed by the given embedding
// service and paper store, loading any previously persisted papers.
func NewIndexService(ctx context.Context, embedder driven.EmbeddingService, store driven.PaperStore) (*IndexService, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if store == nil {
		return nil, fmt.Errorf("paper store: %w", domain.ErrNotConfigured)
	}

	s := &IndexService{
		embedder: embedder,
		store:    store,
		byKey:    make(map[string]int),
	}

	stored, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading persisted index: %w", err)
	}
	for _, sp := range stored {
		s.byKey[sp.Paper.IdentityKey] = len(s.entries)
		s.entries = append(s.entries, indexEntry{paper: sp.Paper, vec: sp.Embedding})
	}
	if len(stored) > 0 {
		logger.Info("Index: loaded %d paper(s) from store", len(stored))
	}

	return s, nil
}

// Ingest adds papers to the index. Papers whose identity key is
// already present are skipped, so re-ingesting a batch is a no-op for
// the duplicates. Fresh papers are renumbered to continue the index's
// citation sequence, keeping markers unique across batches. Returns
// the number of papers actually added.
func (s *IndexService) Ingest(ctx context.Context, papers []domain.Paper) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]domain.Paper, 0, len(papers))
	seen := make(map[string]bool)
	for _, p := range papers {
		if _, exists := s.byKey[p.IdentityKey]; exists {
			continue
		}
		if seen[p.IdentityKey] {
			continue // duplicate within the batch itself
		}
		seen[p.IdentityKey] = true
		fresh = append(fresh, p)
	}

	if len(fresh) == 0 {
		logger.Debug("Ingest: nothing to add (%d duplicates)", len(papers))
		return 0, nil
	}

	for i := range fresh {
		fresh[i].CitationID = domain.CitationID(len(s.entries) + i + 1)
	}

	texts := make([]string, len(fresh))
	for i, p := range fresh {
		texts[i] = p.ComposedText()
	}

	logger.Debug("Ingest: embedding %d paper(s) with %s", len(fresh), s.embedder.ModelName())
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(vecs) != len(fresh) {
		return 0, fmt.Errorf("embed batch: got %d vectors for %d papers", len(vecs), len(fresh))
	}

	added := 0
	for i, p := range fresh {
		if err := s.store.Save(ctx, p, vecs[i]); err != nil {
			return added, fmt.Errorf("persist paper %s: %w", p.IdentityKey, err)
		}
		s.byKey[p.IdentityKey] = len(s.entries)
		s.entries = append(s.entries, indexEntry{paper: p, vec: vecs[i]})
		added++
	}

	logger.Info("Ingest: added %d paper(s), index size now %d", added, len(s.entries))
	return added, nil
}

// Search returns up to topK papers nearest to the query text, ranked
// by ascending cosine distance with ties broken by insertion order.
func (s *IndexService) Search(ctx context.Context, query string, topK int) ([]domain.Paper, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1: %w", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	empty := len(s.entries) == 0
	s.mu.RUnlock()
	if empty {
		logger.Debug("Search: index is empty")
		return []domain.Paper{}, nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		order    int
		distance float64
	}
	ranked := make([]scored, len(s.entries))
	for i, e := range s.entries {
		ranked[i] = scored{order: i, distance: cosineDistance(qvec, e.vec)}
	}

	// Stable sort keeps insertion order for equal distances.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	results := make([]domain.Paper, topK)
	for i := 0; i < topK; i++ {
		results[i] = s.entries[ranked[i].order].paper
	}

	logger.Debug("Search: %d result(s) for query of %d chars", len(results), len(query))
	return results, nil
}

// Size returns the number of indexed papers.
func (s *IndexService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Papers returns a copy of all indexed papers in insertion order.
func (s *IndexService) Papers() []domain.Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	papers := make([]domain.Paper, len(s.entries))
	for i, e := range s.entries {
		papers[i] = e.paper
	}
	return papers
}

// cosineDistance returns 1 - cosine similarity, so nearer vectors have
// smaller values. Mismatched or zero vectors rank last.
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
