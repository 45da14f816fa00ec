package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can search and read
values schemas.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:
  search_paths   find field paths matching a query
  lookup_path    describe one field
  render_schema  return the annotated YAML document

Resources:
  valuesref://schema/{ref}   annotated document of a URL-escaped package ref

Examples:
  # Stdio mode (default)
  valuesref mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  valuesref mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "valuesref": {
        "command": "/path/to/valuesref",
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

	server, err := mcp.NewServer(&mcp.Ports{
		Schema:   schemaService,
		Renderer: documentRenderer,
	}, version)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
