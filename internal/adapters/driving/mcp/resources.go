package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Scholia resources.
	uriScheme = "scholia://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing indexed papers.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "papers",
		Name:        "papers",
		Description: "List of all indexed papers",
		MIMEType:    "application/json",
	}, s.handlePapersResource)

	// Template for individual paper content, addressed by citation ID
	// ordinal (the N in [N]).
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "papers/{citationId}",
		Name:        "paper-content",
		Description: "Full content of a specific indexed paper",
		MIMEType:    "text/plain",
	}, s.handlePaperContentResource)
}

// handlePapersResource returns a list of all indexed papers.
func (s *Server) handlePapersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	papers := s.ports.Index.Papers()

	// Build simplified paper list.
	type paperInfo struct {
		CitationID string   `json:"citation_id"`
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		Year       string   `json:"year"`
		SourceURL  string   `json:"source_url,omitempty"`
	}

	infos := make([]paperInfo, len(papers))
	for i := range papers {
		infos[i] = paperInfo{
			CitationID: papers[i].CitationID,
			Title:      papers[i].Title,
			Authors:    papers[i].Authors,
			Year:       papers[i].Year,
			SourceURL:  papers[i].SourceURL,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling papers: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePaperContentResource returns the content of a specific paper.
func (s *Server) handlePaperContentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract citationId from URI: scholia://papers/{citationId}
	citationID := extractCitationID(req.Params.URI)
	if citationID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, p := range s.ports.Index.Papers() {
		if strings.Trim(p.CitationID, "[]") != citationID {
			continue
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     p.ComposedText(),
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractCitationID extracts the citation ordinal from a URI like
// scholia://papers/{citationId}.
func extractCitationID(uri string) string {
	const prefix = uriScheme + "papers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
