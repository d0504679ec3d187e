package driving

import "github.com/custodia-labs/scholia-cli/internal/core/domain"

// SessionService manages conversation sessions. Sessions are the unit
// of state isolation: turns within one session are strictly ordered,
// while different sessions proceed independently.
type SessionService interface {
	// GetOrCreate returns the session ID, creating the session if it
	// does not exist. An empty ID requests a fresh session with a
	// generated ID.
	GetOrCreate(sessionID string) string

	// History returns a copy of the session's turns in order.
	// Unknown session IDs yield an empty history.
	History(sessionID string) []domain.Turn

	// Append records a turn at the end of the session, creating the
	// session if needed. Append is the only mutator of a session.
	Append(sessionID string, turn domain.Turn)

	// Clear discards the session and all its turns.
	Clear(sessionID string)
}
