package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

func TestSessionService_GetOrCreate(t *testing.T) {
	svc := NewSessionService()

	t.Run("returns the given ID", func(t *testing.T) {
		assert.Equal(t, "abc", svc.GetOrCreate("abc"))
	})

	t.Run("generates an ID when empty", func(t *testing.T) {
		id := svc.GetOrCreate("")
		assert.NotEmpty(t, id)
		assert.NotEqual(t, id, svc.GetOrCreate(""))
	})
}

func TestSessionService_History(t *testing.T) {
	svc := NewSessionService()

	t.Run("new session is empty", func(t *testing.T) {
		assert.Empty(t, svc.History("fresh"))
	})

	t.Run("turns come back in append order", func(t *testing.T) {
		svc.Append("s1", domain.Turn{Role: domain.RoleUser, Text: "first"})
		svc.Append("s1", domain.Turn{Role: domain.RoleAssistant, Text: "second"})
		svc.Append("s1", domain.Turn{Role: domain.RoleUser, Text: "third"})

		history := svc.History("s1")
		require.Len(t, history, 3)
		assert.Equal(t, "first", history[0].Text)
		assert.Equal(t, "second", history[1].Text)
		assert.Equal(t, "third", history[2].Text)
	})

	t.Run("returns a copy", func(t *testing.T) {
		svc.Append("s2", domain.Turn{Role: domain.RoleUser, Text: "original"})

		history := svc.History("s2")
		history[0].Text = "mutated"

		assert.Equal(t, "original", svc.History("s2")[0].Text)
	})
}

func TestSessionService_Isolation(t *testing.T) {
	svc := NewSessionService()

	svc.Append("a", domain.Turn{Role: domain.RoleUser, Text: "for a"})
	svc.Append("b", domain.Turn{Role: domain.RoleUser, Text: "for b"})

	require.Len(t, svc.History("a"), 1)
	require.Len(t, svc.History("b"), 1)
	assert.Equal(t, "for a", svc.History("a")[0].Text)
	assert.Equal(t, "for b", svc.History("b")[0].Text)
}

func TestSessionService_Clear(t *testing.T) {
	svc := NewSessionService()

	svc.Append("gone", domain.Turn{Role: domain.RoleUser, Text: "x"})
	svc.Append("kept", domain.Turn{Role: domain.RoleUser, Text: "y"})

	svc.Clear("gone")

	assert.Empty(t, svc.History("gone"))
	assert.Len(t, svc.History("kept"), 1)
}
