package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

func testPaper(title, content string) domain.Paper {
	return domain.Paper{
		Title:       title,
		Authors:     []string{"Test Author"},
		Year:        "2024",
		Venue:       "Test Venue",
		Content:     content,
		IdentityKey: domain.TitleIdentityKey(title),
	}
}

func newTestIndex(t *testing.T) (*IndexService, *mockEmbedder) {
	t.Helper()
	embedder := newMockEmbedder()
	svc, err := NewIndexService(context.Background(), embedder, memory.NewPaperStore())
	require.NoError(t, err)
	return svc, embedder
}

func TestNewIndexService(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewIndexService(context.Background(), nil, memory.NewPaperStore())
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("requires store", func(t *testing.T) {
		_, err := NewIndexService(context.Background(), newMockEmbedder(), nil)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("reloads persisted papers", func(t *testing.T) {
		ctx := context.Background()
		store := memory.NewPaperStore()
		embedder := newMockEmbedder()

		first, err := NewIndexService(ctx, embedder, store)
		require.NoError(t, err)
		added, err := first.Ingest(ctx, []domain.Paper{
			testPaper("Transformer Survey", "transformer attention models"),
		})
		require.NoError(t, err)
		require.Equal(t, 1, added)

		second, err := NewIndexService(ctx, embedder, store)
		require.NoError(t, err)
		assert.Equal(t, 1, second.Size())

		results, err := second.Search(ctx, "transformer attention", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Transformer Survey", results[0].Title)
	})
}

func TestIndexService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("re-ingesting the same batch adds nothing", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		batch := []domain.Paper{
			testPaper("Paper A", "transformer attention"),
			testPaper("Paper B", "kernel scheduler"),
		}

		added, err := svc.Ingest(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		added, err = svc.Ingest(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 0, added)
		assert.Equal(t, 2, svc.Size())
	})

	t.Run("duplicates within a batch collapse to one", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		batch := []domain.Paper{
			testPaper("Same Title", "content"),
			testPaper("Same Title", "content"),
		}

		added, err := svc.Ingest(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 1, added)
	})

	t.Run("citation numbering continues across batches", func(t *testing.T) {
		svc, _ := newTestIndex(t)

		first, _ := Normalise([]domain.RawPaper{
			{Title: "Paper A", Summary: "transformer"},
			{Title: "Paper B", Summary: "kernel"},
		})
		_, err := svc.Ingest(ctx, first)
		require.NoError(t, err)

		// A later batch restarts its own numbering at [1]; the index
		// must not hand out the same marker twice.
		second, _ := Normalise([]domain.RawPaper{
			{Title: "Paper B", Summary: "kernel"},
			{Title: "Paper C", Summary: "memory"},
		})
		_, err = svc.Ingest(ctx, second)
		require.NoError(t, err)

		papers := svc.Papers()
		require.Len(t, papers, 3)
		ids := make(map[string]bool)
		for _, p := range papers {
			ids[p.CitationID] = true
		}
		assert.Len(t, ids, 3)
		assert.Equal(t, "[1]", papers[0].CitationID)
		assert.Equal(t, "[2]", papers[1].CitationID)
		assert.Equal(t, "[3]", papers[2].CitationID)
		assert.Equal(t, "Paper C", papers[2].Title)
	})

	t.Run("embedding failure leaves index unchanged", func(t *testing.T) {
		svc, embedder := newTestIndex(t)
		embedder.failOn = errMockFailure

		_, err := svc.Ingest(ctx, []domain.Paper{testPaper("Paper A", "x")})
		require.ErrorIs(t, err, errMockFailure)
		assert.Equal(t, 0, svc.Size())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		added, err := svc.Ingest(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, added)
	})
}

func TestIndexService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive top_k", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		_, err := svc.Search(ctx, "anything", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty index returns empty result without embedding", func(t *testing.T) {
		svc, embedder := newTestIndex(t)

		results, err := svc.Search(ctx, "anything", 5)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
		assert.Equal(t, 0, embedder.calls)
	})

	t.Run("ranks the topically nearest paper first", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		_, err := svc.Ingest(ctx, []domain.Paper{
			testPaper("Attention Mechanisms", "transformer attention architectures for sequence modelling"),
			testPaper("Kernel Scheduling", "kernel scheduler design and memory management"),
		})
		require.NoError(t, err)

		results, err := svc.Search(ctx, "transformer attention", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Attention Mechanisms", results[0].Title)
		assert.Equal(t, "Kernel Scheduling", results[1].Title)
	})

	t.Run("returns only the matching units at small top_k", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		_, err := svc.Ingest(ctx, []domain.Paper{
			testPaper("Sequence Transduction", "transformer architectures replace recurrence with transformer layers"),
			testPaper("Fair Queueing", "kernel scheduler fairness for interactive workloads"),
			testPaper("Efficient Inference", "transformer inference on constrained memory budgets"),
		})
		require.NoError(t, err)

		results, err := svc.Search(ctx, "transformer", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Sequence Transduction", results[0].Title)
		assert.Equal(t, "Efficient Inference", results[1].Title)
		for _, r := range results {
			assert.NotEqual(t, "Fair Queueing", r.Title)
		}
	})

	t.Run("caps results at index size", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		_, err := svc.Ingest(ctx, []domain.Paper{
			testPaper("Only Paper", "transformer"),
		})
		require.NoError(t, err)

		results, err := svc.Search(ctx, "transformer", 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("equal distances keep insertion order", func(t *testing.T) {
		svc, _ := newTestIndex(t)
		_, err := svc.Ingest(ctx, []domain.Paper{
			testPaper("Alpha Study", "memory systems"),
			testPaper("Beta Study", "memory systems"),
		})
		require.NoError(t, err)

		results, err := svc.Search(ctx, "memory", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Alpha Study", results[0].Title)
		assert.Equal(t, "Beta Study", results[1].Title)
	})

	t.Run("query embedding failure is reported", func(t *testing.T) {
		svc, embedder := newTestIndex(t)
		_, err := svc.Ingest(ctx, []domain.Paper{testPaper("Paper A", "transformer")})
		require.NoError(t, err)

		embedder.failOn = errMockFailure
		_, err = svc.Search(ctx, "transformer", 1)
		assert.ErrorIs(t, err, errMockFailure)
	})
}

func TestIndexService_Papers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestIndex(t)

	_, err := svc.Ingest(ctx, []domain.Paper{
		testPaper("First", "transformer"),
		testPaper("Second", "kernel"),
	})
	require.NoError(t, err)

	papers := svc.Papers()
	require.Len(t, papers, 2)
	assert.Equal(t, "First", papers[0].Title)
	assert.Equal(t, "Second", papers[1].Title)

	// Mutating the copy must not affect the index.
	papers[0].Title = "Mutated"
	assert.Equal(t, "First", svc.Papers()[0].Title)
}

func TestCosineDistance(t *testing.T) {
	t.Run("identical vectors are nearest", func(t *testing.T) {
		assert.InDelta(t, 0, cosineDistance([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	})

	t.Run("orthogonal vectors are farthest", func(t *testing.T) {
		assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("scale invariant", func(t *testing.T) {
		assert.InDelta(t, 0, cosineDistance([]float32{1, 1}, []float32{5, 5}), 1e-9)
	})

	t.Run("mismatched or zero vectors rank last", func(t *testing.T) {
		assert.Equal(t, float64(1), cosineDistance([]float32{1, 2}, []float32{1, 2, 3}))
		assert.Equal(t, float64(1), cosineDistance(nil, []float32{1}))
		assert.Equal(t, float64(1), cosineDistance([]float32{0, 0}, []float32{1, 1}))
	})
}
