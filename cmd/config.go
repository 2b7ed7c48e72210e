package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tempoutils configuration file values.",
	Long: `Create, edit, and display the tempoutils configuration file.

The configuration stores the Tempo connection values:
- tempo.base_url
- tempo.account_id
- tempo.api_token (prefer the TEMPO_API_TOKEN environment variable)`,
	Example: `
  # Create default config in $HOME/.tempoutils.yaml
  tempoutils config create

  # Show active config and source file
  tempoutils config show

  # Open active config in editor (creates example if missing)
  tempoutils config edit

  # Delete active config file
  tempoutils config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
