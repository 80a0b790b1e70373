package pipeline

import (
	"time"

	"sales-analytics/internal/model"
	"sales-analytics/pkg/utils"
)

// coercedRow is a raw row after type coercion. A failed coercion leaves the
// corresponding has* flag false; nothing is dropped at this point.
type coercedRow struct {
	date      time.Time
	hasDate   bool
	amount    float64
	hasAmount bool
	status    string
	defaulted bool
	customer  string
	category  string
}

// coerceRow applies the column transformations to one raw row. It never fails.
func coerceRow(rec model.RawRecord) coercedRow {
	row := coercedRow{
		customer: rec[model.ColCustomerID],
		category: rec[model.ColProductCategory],
	}
	row.date, row.hasDate = utils.ParseDate(rec[model.ColOrderDate])
	row.amount, row.hasAmount = utils.ParseAmount(rec[model.ColOrderAmount])
	row.status, row.defaulted = defaultStatus(rec[model.ColStatus])
	return row
}

// defaultStatus fills a missing status with "unknown".
func defaultStatus(status string) (string, bool) {
	if utils.IsMissing(status) {
		return model.StatusUnknown, true
	}
	return status, false
}

// complete reports whether the row survives the missing-value filter.
func (r coercedRow) complete() bool {
	return r.hasDate && r.hasAmount
}

func (r coercedRow) record() model.CleanRecord {
	return model.CleanRecord{
		OrderDate:       r.date,
		OrderAmount:     r.amount,
		Status:          r.status,
		CustomerID:      r.customer,
		ProductCategory: r.category,
	}
}
