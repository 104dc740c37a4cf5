package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/learnstat/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the learnstat MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents build progress dashboards and rolling summaries via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup only logs to stderr, so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, statsClient, cacheManager)
	},
}
