package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRetrieval indicates the vector index or its search path was
	// unavailable or timed out. The current turn is aborted; session
	// history up to the prior turn is intact.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrSynthesis indicates the language model failed or returned
	// unusable output. Retrieved context from the same turn may be
	// reused on retry without re-searching.
	ErrSynthesis = errors.New("answer synthesis failed")

	// ErrMetricFailed indicates a single evaluation metric failed to
	// compute for a record. The failure is localised to that cell.
	ErrMetricFailed = errors.New("metric failed")

	// ErrNotConfigured indicates a required external capability is
	// unreachable or unconfigured at startup.
	ErrNotConfigured = errors.New("not configured")

	// ErrLLMUnavailable indicates no LLM service is configured.
	// Reformulation, answering and evaluation are disabled without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates no embedding service is
	// configured. Indexing and retrieval are disabled without one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
