package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sales-analytics/internal/model"
)

// Cleaner turns a RawTable into clean records and persists a snapshot of them.
type Cleaner struct {
	// SnapshotPath receives the cleaned table on every call. Empty disables it.
	SnapshotPath string
}

// NewCleaner creates a cleaner writing its snapshot to snapshotPath.
func NewCleaner(snapshotPath string) *Cleaner {
	return &Cleaner{SnapshotPath: snapshotPath}
}

// Clean deduplicates, coerces and filters raw, then overwrites the snapshot.
//
// The returned records are always valid. A non-nil error only ever wraps
// ErrSnapshotWriteFailed (or a context error, in which case records is nil);
// callers may keep using the records after a snapshot failure.
func (c *Cleaner) Clean(ctx context.Context, raw model.RawTable) ([]model.CleanRecord, model.CleanStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.CleanStats{}, err
	}

	records, stats := CleanRecords(raw)

	if c.SnapshotPath == "" {
		return records, stats, nil
	}
	if err := WriteSnapshot(c.SnapshotPath, records); err != nil {
		return records, stats, fmt.Errorf("%w: %s: %v", ErrSnapshotWriteFailed, c.SnapshotPath, err)
	}
	return records, stats, nil
}

// CleanRecords is the pure part of cleaning: drop exact duplicates, coerce
// dates and amounts, default the status, and drop rows missing a date or an
// amount. Surviving rows keep their input order. raw is not modified.
func CleanRecords(raw model.RawTable) ([]model.CleanRecord, model.CleanStats) {
	stats := model.CleanStats{RawRows: raw.Len()}

	unique := dedupe(raw)
	stats.Duplicates = raw.Len() - len(unique)

	coerced := make([]coercedRow, 0, len(unique))
	for _, rec := range unique {
		row := coerceRow(rec)
		if !row.hasDate {
			stats.BadDates++
		}
		if !row.hasAmount {
			stats.BadAmounts++
		}
		if row.defaulted {
			stats.DefaultedStatus++
		}
		coerced = append(coerced, row)
	}

	records := make([]model.CleanRecord, 0, len(coerced))
	for _, row := range coerced {
		if !row.complete() {
			stats.Dropped++
			continue
		}
		records = append(records, row.record())
	}
	stats.Kept = len(records)

	return records, stats
}

// dedupe keeps the first occurrence of every distinct row, comparing all
// columns of the table.
func dedupe(raw model.RawTable) []model.RawRecord {
	seen := make(map[string]struct{}, raw.Len())
	out := make([]model.RawRecord, 0, raw.Len())
	for _, rec := range raw.Rows {
		key := rowKey(raw.Columns, rec)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// rowKey encodes a row so that two rows share a key only if every column is equal.
func rowKey(columns []string, rec model.RawRecord) string {
	var b strings.Builder
	for _, col := range columns {
		v := rec[col]
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
