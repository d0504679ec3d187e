package mcp

import (
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index provides paper search and listing.
	Index driving.IndexService

	// Answer produces citation-grounded answers. Optional; the ask
	// tool is only registered when set.
	Answer driving.AnswerService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	// Answer is optional: search works without an LLM provider.
	return nil
}
