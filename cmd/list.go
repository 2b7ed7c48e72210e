package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClearDemand/tempo-utils/config"
	"github.com/ClearDemand/tempo-utils/output"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/worklog"
)

var (
	listWeekDay string
	listURL     string
	listTimeout time.Duration
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one week of Tempo worklogs grouped by day",
	Example: `
  # List the week starting on a specific day
  tempoutils list --week 2025-03-24

  # List the current week
  tempoutils list --week "this monday"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		week, err := worklog.ParseWeek(listWeekDay, time.Now())
		if err != nil {
			return fmt.Errorf("invalid --week value %q: %w", listWeekDay, err)
		}

		client, err := tempo.NewClient(tempo.ClientConfig{
			BaseURL:   resolveBaseURL(cfg, listURL),
			APIToken:  cfg.Tempo.APIToken,
			UserAgent: "tempoutils-list/1.0",
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		worklogs, err := client.ListUserWorklogs(ctx, cfg.Tempo.AccountID, week.Start, week.End())
		if err != nil {
			return fmt.Errorf("fetch week %s: %w", week, err)
		}

		fmt.Print(output.RenderWeek(week, worklogs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listWeekDay, "week", "", "Start day of the week to list (YYYY-MM-DD or natural language)")
	listCmd.Flags().StringVar(&listURL, "url", "", "Override Tempo API base URL from config")
	listCmd.Flags().DurationVar(&listTimeout, "timeout", 60*time.Second, "Timeout per Tempo API operation")
	_ = listCmd.MarkFlagRequired("week")
}
