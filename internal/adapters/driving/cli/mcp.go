package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read
the collection's documents.

Tools:
  list_documents   document keys in the collection
  get_document     sections and blocks in display order
  render_document  the public HTML page

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  folio mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  folio mcp serve --port 8080`,
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

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Content:  a.Content,
		Renderer: a.Renderer,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		settings := a.Web
		settings.Addr = fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", settings.Addr)
		return server.RunHTTP(cmd.Context(), settings)
	}

	return server.Run(cmd.Context())
}
