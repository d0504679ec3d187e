// Package mcp provides an MCP (Model Context Protocol) server adapter for Scholia.
// It enables AI assistants to search the local paper index and ask grounded questions.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
