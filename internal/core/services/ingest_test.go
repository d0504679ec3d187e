package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
)

// mockSource replays a fixed batch of raw records.
type mockSource struct {
	raws []domain.RawPaper
	err  error
}

var _ driven.PaperSource = (*mockSource)(nil)

func (m *mockSource) Fetch(context.Context, []string, int) ([]domain.RawPaper, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.raws, nil
}

func (m *mockSource) Name() string { return "mock" }

func TestNewIngestService(t *testing.T) {
	index, err := NewIndexService(context.Background(), newMockEmbedder(), memory.NewPaperStore())
	require.NoError(t, err)

	t.Run("requires source", func(t *testing.T) {
		_, err := NewIngestService(nil, index)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("requires index", func(t *testing.T) {
		_, err := NewIngestService(&mockSource{}, nil)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}

func TestIngestService_FetchAndIndex(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T, source *mockSource) (*IngestService, *IndexService) {
		t.Helper()
		index, err := NewIndexService(ctx, newMockEmbedder(), memory.NewPaperStore())
		require.NoError(t, err)
		svc, err := NewIngestService(source, index)
		require.NoError(t, err)
		return svc, index
	}

	t.Run("counts fetched, dropped and added", func(t *testing.T) {
		source := &mockSource{raws: []domain.RawPaper{
			{Title: "Transformer Survey", Summary: "attention models"},
			{Title: "Kernel Notes", Summary: "scheduler design"},
			{Published: "2024"}, // no title, no content
		}}
		svc, index := newService(t, source)

		summary, err := svc.FetchAndIndex(ctx, []string{"transformers"}, 10)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.Fetched)
		assert.Equal(t, 1, summary.Dropped)
		assert.Equal(t, 2, summary.Added)
		assert.Equal(t, 0, summary.Skipped)
		assert.Equal(t, 2, index.Size())
	})

	t.Run("second run skips known papers", func(t *testing.T) {
		source := &mockSource{raws: []domain.RawPaper{
			{Title: "Transformer Survey", Summary: "attention models"},
		}}
		svc, index := newService(t, source)

		_, err := svc.FetchAndIndex(ctx, nil, 10)
		require.NoError(t, err)

		summary, err := svc.FetchAndIndex(ctx, nil, 10)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Fetched)
		assert.Equal(t, 0, summary.Added)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 1, index.Size())
	})

	t.Run("fetch failure aborts the batch", func(t *testing.T) {
		svc, index := newService(t, &mockSource{err: errMockFailure})

		_, err := svc.FetchAndIndex(ctx, nil, 10)
		assert.ErrorIs(t, err, errMockFailure)
		assert.Equal(t, 0, index.Size())
	})

	t.Run("empty fetch yields a zero summary", func(t *testing.T) {
		svc, _ := newService(t, &mockSource{})

		summary, err := svc.FetchAndIndex(ctx, nil, 10)
		require.NoError(t, err)
		assert.Zero(t, summary.Fetched)
		assert.Zero(t, summary.Added)
	})
}
