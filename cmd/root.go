/*
Copyright © 2025 engineering@cleardemand.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ClearDemand/tempo-utils/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tempoutils",
	Short: "Copy, list, and export Tempo worklogs between weeks.",
	Long: `
**********************************************
*               TEMPO UTILS                  *
**********************************************

This CLI talks to the Tempo REST API to copy a week of worklogs onto
another week, list or export a week's entries, and verify credentials.

Weeks are 7-day ranges starting on the date you pass. Dates accept
YYYY-MM-DD or natural language such as "last monday".
`,
	Example: `
  # Create configuration file
  tempoutils config create

  # Check that the API token and account id work
  tempoutils verify

  # Preview copying last week onto this week (no writes)
  tempoutils copy --source "last monday" --dest "this monday" --dry-run

  # Copy a week of worklogs forward by one week
  tempoutils copy --source 2025-03-24 --dest 2025-03-31

  # List one week of worklogs grouped by day
  tempoutils list --week 2025-03-24

  # Export a week to CSV or Excel
  tempoutils export --week 2025-03-24 --output ./week.csv

  # Browse and copy weeks from the browser
  tempoutils serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()
	config.BindEnvironment()

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.tempoutils.yaml, then ./.tempoutils.yaml)")

	// Commands that talk to Tempo fail fast on incomplete configuration.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "copy", "list", "export", "verify", "serve":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Load .env file without overriding existing env vars.
	// Precedence: real env vars > .env file values.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tempoutils" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tempoutils")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in. Environment variables alone can
	// still satisfy validation, so a missing file is only a notice.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: tempoutils config create")
	}
}
