package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sales-analytics/internal/model"
)

// ------------------- Ingestion -------------------

// Load reads a tabular source into a RawTable. Values are kept exactly as
// encoded; no coercion happens here. Paths ending in .xlsx are read from the
// first worksheet, everything else is parsed as CSV with a header row.
func Load(ctx context.Context, path string) (model.RawTable, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		header, rows, err = readXLSX(ctx, path)
	default:
		header, rows, err = readCSV(ctx, path)
	}
	if err != nil {
		return model.RawTable{}, err
	}

	return buildTable(path, header, rows)
}

// ------------------- CSV Ingestion -------------------
func readCSV(ctx context.Context, path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true
	// Row width is checked against the header in buildTable.
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %s: no header row", ErrMalformedSource, path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: reading header: %v", ErrMalformedSource, path, err)
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
			}
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}

// ------------------- XLSX Ingestion -------------------
func readXLSX(ctx context.Context, path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
		}
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrMalformedSource, path)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: reading sheet %q: %v", ErrMalformedSource, path, sheets[0], err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: no header row", ErrMalformedSource, path)
	}

	header := all[0]
	rows := make([][]string, 0, len(all)-1)
	for _, r := range all[1:] {
		// GetRows trims trailing empty cells; pad back to the header width.
		if len(r) < len(header) {
			padded := make([]string, len(header))
			copy(padded, r)
			r = padded
		}
		rows = append(rows, r)
	}
	return header, rows, nil
}

// buildTable validates the shape of the source and turns rows into RawRecords.
func buildTable(source string, header []string, rows [][]string) (model.RawTable, error) {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		// Clean header names: trim whitespace and stray quotes
		name := strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
		if seen[name] {
			return model.RawTable{}, fmt.Errorf("%w: %s: duplicate column %q", ErrMalformedSource, source, name)
		}
		seen[name] = true
		columns[i] = name
	}

	if err := validateColumns(columns); err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %s: %v", ErrMalformedSource, source, err)
	}

	table := model.RawTable{
		Source:  source,
		Columns: columns,
		Rows:    make([]model.RawRecord, 0, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return model.RawTable{}, fmt.Errorf("%w: %s: row %d has %d fields, header has %d",
				ErrMalformedSource, source, i+2, len(row), len(columns))
		}
		rec := make(model.RawRecord, len(columns))
		for j, col := range columns {
			rec[col] = row[j]
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}
