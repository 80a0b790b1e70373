package model

import "time"

// Column names every sales source must carry.
const (
	ColOrderDate       = "order_date"
	ColOrderAmount     = "order_amount"
	ColStatus          = "status"
	ColCustomerID      = "customer_id"
	ColProductCategory = "product_category"
)

// StatusUnknown replaces a missing status during cleaning.
const StatusUnknown = "unknown"

// RequiredColumns lists the columns Load insists on, in snapshot order.
var RequiredColumns = []string{
	ColOrderDate,
	ColOrderAmount,
	ColStatus,
	ColCustomerID,
	ColProductCategory,
}

// RawRecord is one ingested row, column name to the value as encoded in the source.
type RawRecord map[string]string

// RawTable is the untyped result of loading a source.
// Columns keeps the header order; every row has a value for every column.
type RawTable struct {
	Source  string
	Columns []string
	Rows    []RawRecord
}

// Len returns the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// CleanRecord is the canonical row after coercion and filtering.
type CleanRecord struct {
	OrderDate       time.Time `json:"order_date"`
	OrderAmount     float64   `json:"order_amount"`
	Status          string    `json:"status"`
	CustomerID      string    `json:"customer_id"`
	ProductCategory string    `json:"product_category"`
}

// CleanStats counts what cleaning did to a table.
type CleanStats struct {
	RawRows         int `json:"raw_rows"`
	Duplicates      int `json:"duplicates"`
	BadDates        int `json:"bad_dates"`
	BadAmounts      int `json:"bad_amounts"`
	DefaultedStatus int `json:"defaulted_status"`
	Dropped         int `json:"dropped"`
	Kept            int `json:"kept"`
}

// MonthlyPoint is the revenue of one calendar month, keyed by its first day.
type MonthlyPoint struct {
	Month   time.Time `json:"month"`
	Revenue float64   `json:"revenue"`
}
