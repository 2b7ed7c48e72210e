package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClearDemand/tempo-utils/config"
	"github.com/ClearDemand/tempo-utils/copier"
	"github.com/ClearDemand/tempo-utils/output"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/worklog"
)

var (
	copySourceDay    string
	copyDestDay      string
	copyURL          string
	copyTimeout      time.Duration
	copyDryRun       bool
	copySkipExisting bool
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy one week of Tempo worklogs onto another week",
	Long: `Fetch all worklogs of the source week and recreate them in the destination
week, shifted by the offset between the two week start dates.

Every field is carried over verbatim (issue, duration, start time, description,
work attributes); only the date moves. A failed fetch aborts the run. A failed
create is reported and the remaining entries are still attempted; the command
exits non-zero if any create failed.

With --dry-run the planned entries are printed and nothing is written.
With --skip-existing the destination week is fetched first and entries that
already exist there (same date, issue, duration, start time and description)
are skipped instead of duplicated.`,
	Example: `
  # Preview copying last week onto this week
  tempoutils copy --source "last monday" --dest "this monday" --dry-run

  # Copy a week forward by exactly one week
  tempoutils copy --source 2025-03-24 --dest 2025-03-31

  # Re-run a partially failed copy without duplicating what already landed
  tempoutils copy --source 2025-03-24 --dest 2025-03-31 --skip-existing
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		now := time.Now()
		sourceWeek, err := worklog.ParseWeek(copySourceDay, now)
		if err != nil {
			return fmt.Errorf("invalid --source value %q: %w", copySourceDay, err)
		}
		destWeek, err := worklog.ParseWeek(copyDestDay, now)
		if err != nil {
			return fmt.Errorf("invalid --dest value %q: %w", copyDestDay, err)
		}

		client, err := tempo.NewClient(tempo.ClientConfig{
			BaseURL:   resolveBaseURL(cfg, copyURL),
			APIToken:  cfg.Tempo.APIToken,
			UserAgent: "tempoutils-copy/1.0",
		})
		if err != nil {
			return err
		}

		options := copier.RunOptions{
			SkipExisting: copySkipExisting,
			Timeout:      copyTimeout,
			Out:          os.Stdout,
		}

		plan, err := copier.PlanWeek(context.Background(), client, cfg.Tempo.AccountID, sourceWeek, destWeek, options)
		if err != nil {
			if tempo.IsAuthError(err) {
				return fmt.Errorf("authentication failed (check %s and %s): %w", config.EnvAPIToken, config.EnvAccountID, err)
			}
			return err
		}
		if len(plan.Entries) == 0 {
			fmt.Println("0 entries copied.")
			return nil
		}

		if copyDryRun {
			fmt.Println()
			fmt.Print(output.RenderPlan(plan))
			fmt.Println("Dry run complete. No changes were made.")
			return nil
		}

		result := copier.Apply(context.Background(), client, plan, options)
		fmt.Printf("Copy completed. Created: %d, Skipped: %d, Failed: %d\n",
			result.Created, result.Skipped, len(result.Failures))
		if result.Failed() {
			fmt.Println("Failed entries:")
			for _, failure := range result.Failures {
				fmt.Printf("  - source worklog %d (issue %d) -> %s: %v\n",
					failure.SourceID, failure.IssueID, failure.Date, failure.Err)
			}
			return fmt.Errorf("%d of %d planned worklogs failed to copy", len(result.Failures), result.Planned)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().StringVar(&copySourceDay, "source", "", "Start day of the source week (YYYY-MM-DD or natural language)")
	copyCmd.Flags().StringVar(&copyDestDay, "dest", "", "Start day of the destination week (YYYY-MM-DD or natural language)")
	copyCmd.Flags().StringVar(&copyURL, "url", "", "Override Tempo API base URL from config")
	copyCmd.Flags().DurationVar(&copyTimeout, "timeout", 60*time.Second, "Timeout per Tempo API operation")
	copyCmd.Flags().BoolVar(&copyDryRun, "dry-run", false, "Print the planned entries without creating anything")
	copyCmd.Flags().BoolVar(&copySkipExisting, "skip-existing", false, "Skip entries that already exist in the destination week")
	_ = copyCmd.MarkFlagRequired("source")
	_ = copyCmd.MarkFlagRequired("dest")
}

// resolveBaseURL prefers an explicit --url flag over the configured base URL.
func resolveBaseURL(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Tempo.BaseURL
}
