package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	t.Run("fills defaults for missing fields", func(t *testing.T) {
		raws := []domain.RawPaper{
			{Summary: "Content without any metadata."},
		}

		papers, dropped := Normalise(raws)

		require.Len(t, papers, 1)
		assert.Equal(t, 0, dropped)
		assert.Equal(t, domain.UnknownTitle, papers[0].Title)
		assert.Equal(t, domain.UnknownYear, papers[0].Year)
		assert.Equal(t, domain.UnknownVenue, papers[0].Venue)
		assert.Empty(t, papers[0].Authors)
	})

	t.Run("drops records missing both title and content", func(t *testing.T) {
		raws := []domain.RawPaper{
			{Title: "Kept", Summary: "text"},
			{Authors: []string{"A"}, Published: "2024"},
			{},
		}

		papers, dropped := Normalise(raws)

		require.Len(t, papers, 1)
		assert.Equal(t, 2, dropped)
		assert.Equal(t, "Kept", papers[0].Title)
	})

	t.Run("title only is kept", func(t *testing.T) {
		papers, dropped := Normalise([]domain.RawPaper{{Title: "Just a Title"}})

		require.Len(t, papers, 1)
		assert.Equal(t, 0, dropped)
	})

	t.Run("citation IDs follow surviving record order", func(t *testing.T) {
		raws := []domain.RawPaper{
			{Title: "First"},
			{}, // dropped
			{Title: "Second"},
			{Title: "Third"},
		}

		papers, _ := Normalise(raws)

		require.Len(t, papers, 3)
		assert.Equal(t, "[1]", papers[0].CitationID)
		assert.Equal(t, "[2]", papers[1].CitationID)
		assert.Equal(t, "[3]", papers[2].CitationID)
	})

	t.Run("extracts year from date string", func(t *testing.T) {
		papers, _ := Normalise([]domain.RawPaper{
			{Title: "A", Published: "2024-03-18T17:00:00Z"},
			{Title: "B", Published: "1998"},
			{Title: "C", Published: ""},
		})

		require.Len(t, papers, 3)
		assert.Equal(t, "2024", papers[0].Year)
		assert.Equal(t, "1998", papers[1].Year)
		assert.Equal(t, domain.UnknownYear, papers[2].Year)
	})

	t.Run("trims and filters authors", func(t *testing.T) {
		papers, _ := Normalise([]domain.RawPaper{
			{Title: "A", Authors: []string{" Jane Doe ", "", "John Roe"}},
		})

		require.Len(t, papers, 1)
		assert.Equal(t, []string{"Jane Doe", "John Roe"}, papers[0].Authors)
	})

	t.Run("deterministic over repeated runs", func(t *testing.T) {
		raws := []domain.RawPaper{
			{Title: "One", Summary: "a", Published: "2020-01-01"},
			{Title: "Two", Summary: "b", Published: "2021-06-05"},
		}

		first, _ := Normalise(raws)
		second, _ := Normalise(raws)

		assert.Equal(t, first, second)
	})

	t.Run("identity key derived from title", func(t *testing.T) {
		papers, _ := Normalise([]domain.RawPaper{{Title: "Some Title"}})

		require.Len(t, papers, 1)
		assert.Equal(t, domain.TitleIdentityKey("Some Title"), papers[0].IdentityKey)
	})
}
