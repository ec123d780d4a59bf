package cmd

import (
	"github.com/huangsam/trendbox/internal/mcp"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Trendbox MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents summarize rows they pass in via standard tools.`,
	// Logs go to stderr so stdout stays free for the protocol.
	PreRunE: serverSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, runstore.Manager, version)
	},
}
