package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"sales-analytics/internal/model"
	"sales-analytics/pkg/utils"
)

// WriteSnapshot overwrites path with the cleaned records as CSV, header first.
func WriteSnapshot(path string, records []model.CleanRecord) error {
	// Create directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := writeSnapshotCSV(file, records); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func writeSnapshotCSV(file *os.File, records []model.CleanRecord) error {
	writer := csv.NewWriter(file)

	if err := writer.Write(model.RequiredColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		row := []string{
			utils.FormatDate(rec.OrderDate),
			utils.FormatAmount(rec.OrderAmount),
			rec.Status,
			rec.CustomerID,
			rec.ProductCategory,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}
