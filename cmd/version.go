package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden via ldflags at release build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("terra %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
