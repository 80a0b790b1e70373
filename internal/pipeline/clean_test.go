package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/model"
)

// rawTable builds a table over the required columns from
// (date, amount, status, customer, category) tuples.
func rawTable(rows ...[5]string) model.RawTable {
	t := model.RawTable{Source: "test", Columns: model.RequiredColumns}
	for _, r := range rows {
		rec := model.RawRecord{}
		for i, col := range model.RequiredColumns {
			rec[col] = r[i]
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCleanRecordsEndToEndExample(t *testing.T) {
	raw := rawTable(
		[5]string{"2024-01-05", "10", "", "C1", "X"},
		[5]string{"2024-01-05", "bad", "paid", "C2", "X"},
		[5]string{"2024-01-05", "10", "", "C1", "X"},
	)

	records, stats := CleanRecords(raw)

	want := []model.CleanRecord{{
		OrderDate:       day(2024, 1, 5),
		OrderAmount:     10,
		Status:          model.StatusUnknown,
		CustomerID:      "C1",
		ProductCategory: "X",
	}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("clean mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, model.CleanStats{
		RawRows:         3,
		Duplicates:      1,
		BadAmounts:      1,
		DefaultedStatus: 1,
		Dropped:         1,
		Kept:            1,
	}, stats)
}

func TestCleanRecordsDropsDuplicatesKeepingFirst(t *testing.T) {
	a := [5]string{"2024-01-01", "5", "paid", "C1", "X"}
	b := [5]string{"2024-01-02", "7", "paid", "C2", "Y"}

	records, _ := CleanRecords(rawTable(a, a, b))

	require.Len(t, records, 2)
	assert.Equal(t, "C1", records[0].CustomerID)
	assert.Equal(t, "C2", records[1].CustomerID)
}

func TestCleanRecordsDuplicateComparesAllColumns(t *testing.T) {
	raw := model.RawTable{
		Columns: append(append([]string{}, model.RequiredColumns...), "note"),
		Rows: []model.RawRecord{
			{"order_date": "2024-01-01", "order_amount": "5", "status": "paid", "customer_id": "C1", "product_category": "X", "note": "a"},
			{"order_date": "2024-01-01", "order_amount": "5", "status": "paid", "customer_id": "C1", "product_category": "X", "note": "b"},
		},
	}

	records, stats := CleanRecords(raw)
	assert.Len(t, records, 2)
	assert.Zero(t, stats.Duplicates)
}

func TestCleanRecordsDropsMissingValues(t *testing.T) {
	raw := rawTable(
		[5]string{"2024-01-01", "5", "paid", "C1", "X"},
		[5]string{"2024-01-02", "n/a", "paid", "C2", "X"},
		[5]string{"abc", "3", "paid", "C3", "X"},
		[5]string{"xyz", "junk", "paid", "C4", "X"},
		[5]string{"2024-01-03", "1,000", "paid", "C5", "X"},
		[5]string{"2024-01-04", "8", "paid", "C6", "X"},
	)

	records, stats := CleanRecords(raw)

	require.Len(t, records, 2)
	assert.Equal(t, "C1", records[0].CustomerID)
	assert.Equal(t, "C6", records[1].CustomerID)
	assert.Equal(t, 4, stats.Dropped)
	assert.Equal(t, 3, stats.BadAmounts)
	assert.Equal(t, 2, stats.BadDates)
	assert.Equal(t, raw.Len()-stats.Dropped, len(records))
}

func TestCleanRecordsDefaultsStatus(t *testing.T) {
	records, stats := CleanRecords(rawTable(
		[5]string{"2024-01-01", "5", "", "C1", "X"},
		[5]string{"2024-01-02", "6", "NA", "C2", "X"},
		[5]string{"2024-01-03", "7", "shipped", "C3", "X"},
		[5]string{"2024-01-04", "8", "   ", "C4", "X"},
	))

	require.Len(t, records, 4)
	assert.Equal(t, model.StatusUnknown, records[0].Status)
	assert.Equal(t, model.StatusUnknown, records[1].Status)
	assert.Equal(t, "shipped", records[2].Status)
	// whitespace is not a null token
	assert.Equal(t, "   ", records[3].Status)
	assert.Equal(t, 2, stats.DefaultedStatus)
}

func TestCleanRecordsDropsNonDecimalAmounts(t *testing.T) {
	records, stats := CleanRecords(rawTable(
		[5]string{"2024-01-01", "0x1p3", "paid", "C1", "X"},
		[5]string{"2024-01-02", "12.5", "paid", "C2", "X"},
		[5]string{"2024-01-03", "Infinity", "paid", "C3", "X"},
		[5]string{"2024-01-04", "1_000", "paid", "C4", "X"},
	))

	require.Len(t, records, 1)
	assert.Equal(t, "C2", records[0].CustomerID)
	assert.Equal(t, 3, stats.BadAmounts)
	assert.Equal(t, 3, stats.Dropped)
}

func TestCleanRecordsIsIdempotentAndDoesNotMutateInput(t *testing.T) {
	raw := rawTable(
		[5]string{"2024-03-01", "5", "", "C1", "X"},
		[5]string{"2024-03-01", "5", "", "C1", "X"},
		[5]string{"2024-03-02", "oops", "paid", "C2", "Y"},
		[5]string{"March 3, 2024", "12.5", "paid", "C3", "Y"},
	)
	before := rawTable(
		[5]string{"2024-03-01", "5", "", "C1", "X"},
		[5]string{"2024-03-01", "5", "", "C1", "X"},
		[5]string{"2024-03-02", "oops", "paid", "C2", "Y"},
		[5]string{"March 3, 2024", "12.5", "paid", "C3", "Y"},
	)

	first, _ := CleanRecords(raw)
	second, _ := CleanRecords(raw)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("clean is not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, raw); diff != "" {
		t.Fatalf("clean mutated its input (-before +after):\n%s", diff)
	}
	require.Len(t, first, 2)
	assert.Equal(t, day(2024, 3, 3), first[1].OrderDate)
}

func TestCleanerWritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "sales_clean.csv")
	// a stale file must be replaced, not appended to
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	records, stats, err := NewCleaner(path).Clean(context.Background(), rawTable(
		[5]string{"2024-01-05", "10", "", "C1", "X"},
		[5]string{"2024-01-06T10:00:00Z", "2.50", "paid", "C2", "Y,Z"},
	))
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, stats.Kept)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"order_date,order_amount,status,customer_id,product_category\n"+
			"2024-01-05,10,unknown,C1,X\n"+
			"2024-01-06,2.5,paid,C2,\"Y,Z\"\n",
		string(data))
}

func TestCleanerSnapshotFailureKeepsRecords(t *testing.T) {
	// a directory cannot be opened as a file
	dir := t.TempDir()

	records, _, err := NewCleaner(dir).Clean(context.Background(), rawTable(
		[5]string{"2024-01-05", "10", "", "C1", "X"},
	))

	require.ErrorIs(t, err, ErrSnapshotWriteFailed)
	require.Len(t, records, 1)
	assert.Equal(t, 10.0, records[0].OrderAmount)
}

func TestCleanerWithoutSnapshot(t *testing.T) {
	records, _, err := NewCleaner("").Clean(context.Background(), rawTable(
		[5]string{"2024-01-05", "10", "", "C1", "X"},
	))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCleanerHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, _, err := NewCleaner("").Clean(ctx, rawTable([5]string{"2024-01-05", "10", "", "C1", "X"}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, records)
}
