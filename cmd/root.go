package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "terra",
	Short: "terra content automation platform",
	Long: `terra runs the content generation pipeline and automation catalog.

Modes:
  terra serve      Run the HTTP API server
  terra mcp        Run as an MCP stdio server
  terra plan       Manage content plans from the command line
  terra templates  Inspect the automation template catalog`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default .terra/config.yaml)")
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
