package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleIdentityKey(t *testing.T) {
	t.Run("stable across calls", func(t *testing.T) {
		a := TitleIdentityKey("Attention Is All You Need")
		b := TitleIdentityKey("Attention Is All You Need")
		assert.Equal(t, a, b)
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		a := TitleIdentityKey("Attention Is All You Need")
		b := TitleIdentityKey("  attention is all you need  ")
		assert.Equal(t, a, b)
	})

	t.Run("different titles differ", func(t *testing.T) {
		a := TitleIdentityKey("Attention Is All You Need")
		b := TitleIdentityKey("BERT: Pre-training of Deep Bidirectional Transformers")
		assert.NotEqual(t, a, b)
	})

	t.Run("fixed width hex", func(t *testing.T) {
		assert.Len(t, TitleIdentityKey("x"), 16)
	})
}

func TestCitationID(t *testing.T) {
	assert.Equal(t, "[1]", CitationID(1))
	assert.Equal(t, "[42]", CitationID(42))
}

func TestPaper_ComposedText(t *testing.T) {
	p := Paper{
		Title:   "Test Paper",
		Authors: []string{"A. One", "B. Two"},
		Content: "An abstract.",
	}

	assert.Equal(t, "Title: Test Paper\nAuthors: A. One, B. Two\nAbstract: An abstract.", p.ComposedText())
}

func TestPaper_CitationLine(t *testing.T) {
	p := Paper{
		Title:      "Test Paper",
		Authors:    []string{"A. One"},
		Year:       "2024",
		CitationID: "[3]",
	}

	assert.Equal(t, "Citation: [3] Test Paper by A. One (2024)", p.CitationLine())
}

func TestPaper_ReferenceLine(t *testing.T) {
	t.Run("short author list kept in full", func(t *testing.T) {
		p := Paper{
			Title:      "Test Paper",
			Authors:    []string{"A. One", "B. Two"},
			Year:       "2024",
			CitationID: "[1]",
		}

		assert.Equal(t, "1. [1] Test Paper by A. One, B. Two (2024)", p.ReferenceLine(1))
	})

	t.Run("long author list truncated with et al", func(t *testing.T) {
		p := Paper{
			Title:      "Test Paper",
			Authors:    []string{"A", "B", "C", "D", "E"},
			Year:       "2024",
			CitationID: "[2]",
		}

		assert.Equal(t, "2. [2] Test Paper by A, B, C et al. (2024)", p.ReferenceLine(2))
	})

	t.Run("exactly max authors not truncated", func(t *testing.T) {
		p := Paper{
			Title:      "Test Paper",
			Authors:    []string{"A", "B", "C"},
			Year:       "2024",
			CitationID: "[1]",
		}

		assert.NotContains(t, p.ReferenceLine(1), "et al.")
	})
}
