package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is a single message within a conversation session.
// Turns are append-only; they are never mutated once recorded.
type Turn struct {
	// Role is who produced the turn.
	Role Role

	// Text is the message content.
	Text string

	// Papers holds the retrieved papers used to produce this turn.
	// Only set on assistant turns.
	Papers []Paper
}

// Session is an ordered conversation history identified by an opaque ID.
// It lives for the process lifetime and is discarded on explicit reset.
type Session struct {
	// ID is the opaque session identifier.
	ID string

	// Turns is the append-only conversation history.
	Turns []Turn
}

// Answer is the result of one retrieval-augmented answering turn.
type Answer struct {
	// Text is the answer, including any References section.
	Text string

	// Cited holds the retrieved papers whose citation markers appear
	// in Text, deduplicated, in first-appearance order.
	Cited []Paper
}
