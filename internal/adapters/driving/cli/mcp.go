package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/scholia-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scholia-cli/internal/core/services"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  scholia mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  scholia mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "scholia": {
        "command": "/path/to/scholia",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()

	index, closers, err := newIndexService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	// The ask tool needs an LLM; expose search-only when none is
	// configured rather than refusing to start.
	var answer driving.AnswerService
	if llm, err := ai.CreateAndValidateLLMService(settings.LLM); err == nil {
		defer llm.Close()
		sessions := services.NewSessionService()
		svc, err := services.NewAnswerService(index, llm, sessions, services.AnswerConfig{
			TopK:   settings.Retrieval.TopK,
			FetchK: settings.Retrieval.FetchK,
		})
		if err != nil {
			return err
		}
		answer = svc
	} else {
		logger.Warn("LLM unavailable, ask tool disabled: %v", err)
	}

	ports := &mcp.Ports{
		Index:  index,
		Answer: answer,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
