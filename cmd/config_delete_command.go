package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by tempoutils.

If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  tempoutils config delete

  # Delete config at a custom path
  tempoutils --configFile ./custom-tempoutils.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("error deleting configuration file: %w", err)
		}

		fmt.Printf("Configuration file successfully deleted: %s\n", configPath)
		fmt.Println("Run 'tempoutils config create' to start over from the example template.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
