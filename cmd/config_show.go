package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ClearDemand/tempo-utils/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.
The API token is never printed in full.`,
	Example: `
  # Show active configuration
  tempoutils config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded; values come from defaults and environment.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("tempo.base_url: %s\n", cfg.Tempo.BaseURL)
		fmt.Printf("tempo.account_id: %s\n", cfg.Tempo.AccountID)
		fmt.Printf("tempo.api_token: %s\n", cfg.Tempo.RedactedToken())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
