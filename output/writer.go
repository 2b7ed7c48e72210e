package output

import (
	"fmt"
	"strings"

	"github.com/ClearDemand/tempo-utils/tempo"
)

type Writer interface {
	Write(path string, worklogs []tempo.Worklog) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

var exportHeaders = []string{
	"TempoWorklogID",
	"StartDate",
	"StartTime",
	"TimeSpentSeconds",
	"BillableSeconds",
	"IssueID",
	"Description",
	"AuthorAccountID",
}

func exportRow(entry tempo.Worklog) []string {
	return []string{
		fmt.Sprintf("%d", entry.TempoWorklogID),
		entry.StartDate,
		entry.StartTime,
		fmt.Sprintf("%d", entry.TimeSpentSeconds),
		fmt.Sprintf("%d", entry.BillableSeconds),
		fmt.Sprintf("%d", entry.Issue.ID),
		entry.Description,
		entry.Author.AccountID,
	}
}
