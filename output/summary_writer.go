package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

var summaryHeaders = []string{
	"Date",
	"Worklogs",
	"TimeSpentSeconds",
	"TimeSpent",
}

func summaryRow(summary DaySummary) []string {
	return []string{
		summary.Date,
		fmt.Sprintf("%d", summary.WorklogCount),
		fmt.Sprintf("%d", summary.Seconds),
		FormatDuration(summary.Seconds),
	}
}

// WriteDaySummaries exports per-day aggregates in the requested format.
func WriteDaySummaries(path, format string, summaries []DaySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDaySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDaySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeDaySummariesCSV(path string, summaries []DaySummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(summaryHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, summary := range summaries {
		if err := writer.Write(summaryRow(summary)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

func writeDaySummariesExcel(path string, summaries []DaySummary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	for col, header := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, summary := range summaries {
		row := i + 2
		for col, value := range summaryRow(summary) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
