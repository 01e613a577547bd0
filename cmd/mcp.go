package cmd

import (
	"github.com/huangsam/geotrend/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the geotrend MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents read snapshots, forecast series and analyze migration via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
