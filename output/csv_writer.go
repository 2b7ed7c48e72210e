package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ClearDemand/tempo-utils/tempo"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, worklogs []tempo.Worklog) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, entry := range worklogs {
		if err := writer.Write(exportRow(entry)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
