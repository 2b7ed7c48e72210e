package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClearDemand/tempo-utils/config"
	"github.com/ClearDemand/tempo-utils/internal/timeutil"
	"github.com/ClearDemand/tempo-utils/tempo"
)

var (
	verifyURL     string
	verifyTimeout time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify Tempo API credentials",
	Long: `Check that the configured API token and account id can reach the Tempo API.

Performs a one-day worklog lookup for the configured account. A 401/403
response reports an authentication problem; any other failure reports the
status and response body returned by Tempo.`,
	Example: `
  # Verify the token and account id from config/environment
  tempoutils verify

  # Verify against a different Tempo deployment
  tempoutils verify --url https://api.eu.tempo.io/4
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		client, err := tempo.NewClient(tempo.ClientConfig{
			BaseURL:   resolveBaseURL(cfg, verifyURL),
			APIToken:  cfg.Tempo.APIToken,
			UserAgent: "tempoutils-verify/1.0",
		})
		if err != nil {
			return err
		}

		today := timeutil.StartOfDay(time.Now())

		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		worklogs, err := client.ListUserWorklogs(ctx, cfg.Tempo.AccountID, today, today)
		if err != nil {
			if tempo.IsAuthError(err) {
				return fmt.Errorf("authentication failed (check %s and %s): %w", config.EnvAPIToken, config.EnvAccountID, err)
			}
			return fmt.Errorf("verify request failed: %w", err)
		}

		fmt.Println("Credentials OK.")
		fmt.Printf("  Account:  %s\n", cfg.Tempo.AccountID)
		fmt.Printf("  Base URL: %s\n", resolveBaseURL(cfg, verifyURL))
		fmt.Printf("  Token:    %s\n", cfg.Tempo.RedactedToken())
		fmt.Printf("  Worklogs logged today: %d\n", len(worklogs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyURL, "url", "", "Override Tempo API base URL from config")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 30*time.Second, "Timeout for the verification request")
}
