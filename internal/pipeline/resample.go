package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-analytics/internal/model"
)

// MonthlyRevenue buckets revenue by calendar month. The series runs from the
// earliest to the latest month present without gaps; months with no orders
// have zero revenue. Each point is keyed by the first day of its month (UTC).
func MonthlyRevenue(records []model.CleanRecord) []model.MonthlyPoint {
	if len(records) == 0 {
		return nil
	}

	sums := make(map[time.Time]decimal.Decimal)
	first, last := monthOf(records[0].OrderDate), monthOf(records[0].OrderDate)
	for _, rec := range records {
		m := monthOf(rec.OrderDate)
		sums[m] = sums[m].Add(decimal.NewFromFloat(rec.OrderAmount))
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	var points []model.MonthlyPoint
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		points = append(points, model.MonthlyPoint{Month: m, Revenue: sums[m].InexactFloat64()})
	}
	return points
}

// OrderAmounts returns every order amount in record order.
func OrderAmounts(records []model.CleanRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = rec.OrderAmount
	}
	return out
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
