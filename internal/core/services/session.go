package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// sessionState guards one session's turn sequence. The per-session
// mutex keeps turn ordering deterministic when the same session is hit
// concurrently; different sessions never contend with each other.
type sessionState struct {
	mu      sync.Mutex
	session domain.Session
}

// SessionService holds per-session conversation histories for the
// process lifetime. Turns are append-only; reset discards a session
// wholesale, never partially.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewSessionService creates an empty session service.
func NewSessionService() *SessionService {
	return &SessionService{sessions: make(map[string]*sessionState)}
}

// GetOrCreate returns the session ID, creating the session on first
// use. An empty ID requests a fresh session with a generated ID.
func (s *SessionService) GetOrCreate(sessionID string) string {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.state(sessionID)
	return sessionID
}

// History returns a copy of the session's turns in order.
func (s *SessionService) History(sessionID string) []domain.Turn {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	turns := make([]domain.Turn, len(st.session.Turns))
	copy(turns, st.session.Turns)
	return turns
}

// Append records a turn at the end of the session.
func (s *SessionService) Append(sessionID string, turn domain.Turn) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.Turns = append(st.session.Turns, turn)
}

// Clear discards the session and all its turns.
func (s *SessionService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	logger.Debug("Session %s cleared", sessionID)
}

// state returns the session's state, creating it if needed.
func (s *SessionService) state(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{session: domain.Session{ID: sessionID}}
		s.sessions[sessionID] = st
	}
	return st
}
