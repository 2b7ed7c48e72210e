package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ClearDemand/tempo-utils/copier"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/worklog"
)

type DaySummary struct {
	Date         string
	Seconds      int
	WorklogCount int
}

// BuildDaySummaries groups worklogs by start date and totals their durations,
// sorted by date.
func BuildDaySummaries(worklogs []tempo.Worklog) []DaySummary {
	if len(worklogs) == 0 {
		return []DaySummary{}
	}

	byDay := make(map[string]*DaySummary)
	days := make([]string, 0, 7)
	for _, entry := range worklogs {
		summary, ok := byDay[entry.StartDate]
		if !ok {
			summary = &DaySummary{Date: entry.StartDate}
			byDay[entry.StartDate] = summary
			days = append(days, entry.StartDate)
		}
		summary.Seconds += entry.TimeSpentSeconds
		summary.WorklogCount++
	}
	sort.Strings(days)

	out := make([]DaySummary, 0, len(days))
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out
}

// RenderWeek formats one week of worklogs grouped by day with totals.
func RenderWeek(week worklog.Week, worklogs []tempo.Worklog) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Worklogs %s\n", week))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	if len(worklogs) == 0 {
		b.WriteString("No worklogs found for this week.\n")
		return b.String()
	}

	byDay := make(map[string][]tempo.Worklog)
	for _, entry := range worklogs {
		byDay[entry.StartDate] = append(byDay[entry.StartDate], entry)
	}

	total := 0
	for _, summary := range BuildDaySummaries(worklogs) {
		total += summary.Seconds
		b.WriteString(fmt.Sprintf("%s (%s, %d entries):\n", summary.Date, FormatDuration(summary.Seconds), summary.WorklogCount))

		dayEntries := byDay[summary.Date]
		sort.SliceStable(dayEntries, func(i, j int) bool {
			return dayEntries[i].StartTime < dayEntries[j].StartTime
		})
		for _, entry := range dayEntries {
			b.WriteString(fmt.Sprintf("  - %s issue %d: %s\n",
				FormatDuration(entry.TimeSpentSeconds), entry.Issue.ID, entry.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Week total: %s across %d worklogs\n", FormatDuration(total), len(worklogs)))
	return b.String()
}

// RenderPlan formats a copy plan for dry-run preview: per-day groups of the
// planned entries with durations, issues and source identifiers.
func RenderPlan(plan *copier.Plan) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Copy plan %s -> %s (offset %+d days)\n", plan.SourceWeek, plan.DestWeek, plan.OffsetDays))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	if len(plan.Entries) == 0 {
		b.WriteString("Nothing to copy: no worklogs found in the source week.\n")
		return b.String()
	}

	byDay := make(map[string][]copier.PlannedEntry)
	days := make([]string, 0, 7)
	for _, entry := range plan.Entries {
		if _, ok := byDay[entry.Request.StartDate]; !ok {
			days = append(days, entry.Request.StartDate)
		}
		byDay[entry.Request.StartDate] = append(byDay[entry.Request.StartDate], entry)
	}
	sort.Strings(days)

	totalSeconds := 0
	for _, day := range days {
		dayEntries := byDay[day]
		daySeconds := 0
		for _, entry := range dayEntries {
			if !entry.Exists {
				daySeconds += entry.Request.TimeSpentSeconds
			}
		}
		totalSeconds += daySeconds

		b.WriteString(fmt.Sprintf("%s (%s planned):\n", day, FormatDuration(daySeconds)))
		for _, entry := range dayEntries {
			marker := ""
			if entry.Exists {
				marker = "  [exists, will skip]"
			}
			b.WriteString(fmt.Sprintf("  - %s issue %d: %s  (from %s, worklog %d)%s\n",
				FormatDuration(entry.Request.TimeSpentSeconds),
				entry.Request.IssueID,
				entry.Request.Description,
				entry.Source.StartDate,
				entry.Source.TempoWorklogID,
				marker,
			))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Planned entries: %d", plan.Pending()))
	if skipped := plan.Skipped(); skipped > 0 {
		b.WriteString(fmt.Sprintf(" (skipping %d already present)", skipped))
	}
	b.WriteString(fmt.Sprintf(", total %s\n", FormatDuration(totalSeconds)))
	return b.String()
}

// FormatDuration renders seconds as compact hours and minutes, e.g. "2h",
// "1h 30m", "45m".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
