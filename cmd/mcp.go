package cmd

import (
	"github.com/spf13/cobra"

	"github.com/houghtp/terra-automation-platform-sub005/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP stdio server",
	Long:  "Exposes plan submission, processing and the automation catalog as MCP tools over stdio.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		return mcpserver.New(Version, a.engine, a.store, a.registry).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
