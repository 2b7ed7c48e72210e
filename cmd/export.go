package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClearDemand/tempo-utils/config"
	"github.com/ClearDemand/tempo-utils/output"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/worklog"
)

var (
	exportWeekDay string
	exportFormat  string
	exportMode    string
	exportOutput  string
	exportURL     string
	exportTimeout time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one week of Tempo worklogs to CSV/Excel",
	Long: `Export one week of Tempo worklogs.

Modes:
- raw: export each worklog row
- daily: export per-day aggregates (entry count, total time)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export raw rows to CSV
  tempoutils export --week 2025-03-24 --output ./week.csv

  # Export raw rows to Excel
  tempoutils export --week 2025-03-24 --output ./week.xlsx

  # Export daily aggregates to CSV
  tempoutils export --week 2025-03-24 --mode daily --output ./daily-summary.csv

  # Force Excel format independent of extension
  tempoutils export --week 2025-03-24 --format excel --output ./week.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		week, err := worklog.ParseWeek(exportWeekDay, time.Now())
		if err != nil {
			return fmt.Errorf("invalid --week value %q: %w", exportWeekDay, err)
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		client, err := tempo.NewClient(tempo.ClientConfig{
			BaseURL:   resolveBaseURL(cfg, exportURL),
			APIToken:  cfg.Tempo.APIToken,
			UserAgent: "tempoutils-export/1.0",
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		worklogs, err := client.ListUserWorklogs(ctx, cfg.Tempo.AccountID, week.Start, week.End())
		if err != nil {
			return fmt.Errorf("fetch week %s: %w", week, err)
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, worklogs); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(worklogs), format, exportOutput)
		case "daily":
			summaries := output.BuildDaySummaries(worklogs)
			if err := output.WriteDaySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Days: %d, Mode: daily, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, daily)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportWeekDay, "week", "", "Start day of the week to export (YYYY-MM-DD or natural language)")
	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|daily")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportURL, "url", "", "Override Tempo API base URL from config")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 60*time.Second, "Timeout per Tempo API operation")

	_ = exportCmd.MarkFlagRequired("week")
	_ = exportCmd.MarkFlagRequired("output")
}
