package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func samplePaper(title string) domain.Paper {
	return domain.Paper{
		Title:       title,
		Authors:     []string{"Jane Doe", "John Roe"},
		Year:        "2024",
		Venue:       "Test Venue",
		Content:     "An abstract about " + title + ".",
		SourceURL:   "http://example.com/" + title,
		CitationID:  "[1]",
		IdentityKey: domain.TitleIdentityKey(title),
	}
}

func TestNewStore(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, filepath.Join(dir, "index.db"), store.Path())
}

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	paper := samplePaper("Attention Mechanisms")
	embedding := []float32{0.1, -0.5, 2.25, 0}

	require.NoError(t, store.Save(ctx, paper, embedding))

	stored, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.Equal(t, paper, stored[0].Paper)
	assert.Equal(t, embedding, stored[0].Embedding)
}

func TestStore_SaveDuplicateIsNoOp(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	paper := samplePaper("Attention Mechanisms")
	require.NoError(t, store.Save(ctx, paper, []float32{1}))

	changed := paper
	changed.Content = "rewritten abstract"
	require.NoError(t, store.Save(ctx, changed, []float32{2}))

	stored, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, paper.Content, stored[0].Paper.Content)
	assert.Equal(t, []float32{1}, stored[0].Embedding)
}

func TestStore_ListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	titles := []string{"Charlie", "Alpha", "Bravo"}
	for _, title := range titles {
		require.NoError(t, store.Save(ctx, samplePaper(title), []float32{1}))
	}

	stored, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, title := range titles {
		assert.Equal(t, title, stored[i].Paper.Title)
	}
}

func TestStore_Has(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	paper := samplePaper("Attention Mechanisms")
	require.NoError(t, store.Save(ctx, paper, []float32{1}))

	ok, err := store.Has(ctx, paper.IdentityKey)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Has(ctx, "missing-key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Count(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.Save(ctx, samplePaper("One"), []float32{1}))
	require.NoError(t, store.Save(ctx, samplePaper("Two"), []float32{2}))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, samplePaper("One"), []float32{1}))
	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	paper := samplePaper("Durable Paper")
	require.NoError(t, store.Save(ctx, paper, []float32{0.25, 0.75}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	stored, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, paper, stored[0].Paper)
	assert.Equal(t, []float32{0.25, 0.75}, stored[0].Embedding)
}

func TestFloat32Roundtrip(t *testing.T) {
	vec := []float32{0, -1.5, 3.14159, 1e-8}
	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
	assert.Empty(t, bytesToFloat32Slice(nil))
}
