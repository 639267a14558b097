package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the automation template catalog",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List automation templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := automation.NewRegistry()
		for _, tmpl := range reg.ListTemplates() {
			fmt.Printf("%-22s  %-12s  %s\n", tmpl.ID, tmpl.Category, tmpl.Name)
			for capability, providers := range tmpl.RequiredProviders {
				fmt.Printf("    requires %s: %v\n", capability, providers)
			}
		}
		return nil
	},
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate <template-id> <capability> <provider>",
	Short: "Check whether a provider is allowed for a template capability",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := automation.NewRegistry()
		ok := reg.ValidateProviderChoice(args[0], automation.Capability(args[1]), args[2])
		if !ok {
			return fmt.Errorf("provider %q is not allowed for capability %q on template %q", args[2], args[1], args[0])
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesValidateCmd)
	rootCmd.AddCommand(templatesCmd)
}
