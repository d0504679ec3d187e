package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_papers tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find papers"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of papers to return (default 5)"`
}

// SearchOutput is the output schema for the search_papers tool.
type SearchOutput struct {
	Results []PaperOutput `json:"results"`
	Count   int           `json:"count"`
}

// PaperOutput represents a single retrieved paper.
type PaperOutput struct {
	CitationID string   `json:"citation_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Year       string   `json:"year"`
	Venue      string   `json:"venue,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Abstract   string   `json:"abstract,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the research question to answer"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session ID for follow-up questions; omit to start fresh"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string        `json:"answer"`
	Cited  []PaperOutput `json:"cited_papers"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search the local paper index by semantic similarity",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a research question with citations grounded in indexed papers",
		}, s.handleAsk)
	}
}

// handleSearch handles the search_papers tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	papers, err := s.ports.Index.Search(ctx, input.Query, topK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]PaperOutput, len(papers)),
		Count:   len(papers),
	}
	for i := range papers {
		output.Results[i] = PaperOutput{
			CitationID: papers[i].CitationID,
			Title:      papers[i].Title,
			Authors:    papers[i].Authors,
			Year:       papers[i].Year,
			Venue:      papers[i].Venue,
			SourceURL:  papers[i].SourceURL,
			Abstract:   papers[i].Content,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Ask(ctx, input.SessionID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer: answer.Text,
		Cited:  make([]PaperOutput, len(answer.Cited)),
	}
	for i := range answer.Cited {
		output.Cited[i] = PaperOutput{
			CitationID: answer.Cited[i].CitationID,
			Title:      answer.Cited[i].Title,
			Authors:    answer.Cited[i].Authors,
			Year:       answer.Cited[i].Year,
			Venue:      answer.Cited[i].Venue,
			SourceURL:  answer.Cited[i].SourceURL,
		}
	}

	return nil, output, nil
}
