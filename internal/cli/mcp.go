package cli

import (
	"github.com/spf13/cobra"

	"github.com/apisurface/distill/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `MCP starts a Model Context Protocol server exposing the distill_project
and distill_search tools, so agent clients can request a project's API
surface and search its symbols.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(Version, newLogger())
		defer server.Close()
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
