package pipeline

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"sales-analytics/internal/model"
)

// TopCustomersLimit caps the top-customers ranking.
const TopCustomersLimit = 10

// Compute aggregates clean records into a MetricsBundle.
//
// It is pure and order independent: amounts are summed exactly, so any
// permutation of records yields identical output. Customers with equal
// revenue are ranked by ascending customer ID. With no records it returns a
// bundle with zero revenue and empty group-bys together with ErrEmptyDataset,
// since the average order value is undefined.
func Compute(records []model.CleanRecord) (model.MetricsBundle, error) {
	if len(records) == 0 {
		return model.NewMetricsBundle(model.MetricsBundleParams{}), ErrEmptyDataset
	}

	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	byCustomer := make(map[string]decimal.Decimal)
	statusCounts := make(map[string]int)

	for _, rec := range records {
		amount := decimal.NewFromFloat(rec.OrderAmount)
		total = total.Add(amount)
		byCategory[rec.ProductCategory] = byCategory[rec.ProductCategory].Add(amount)
		byCustomer[rec.CustomerID] = byCustomer[rec.CustomerID].Add(amount)
		statusCounts[rec.Status]++
	}

	count := len(records)
	totalRevenue := total.InexactFloat64()

	return model.NewMetricsBundle(model.MetricsBundleParams{
		RecordCount:        count,
		TotalRevenue:       totalRevenue,
		AverageOrderValue:  totalRevenue / float64(count),
		CustomerCount:      len(byCustomer),
		RevenueByCategory:  toFloatMap(byCategory),
		TopCustomers:       rankCustomers(byCustomer, TopCustomersLimit),
		StatusDistribution: proportions(statusCounts, count),
	}), nil
}

// rankCustomers sorts customers by revenue descending, ID ascending, and keeps the first limit.
func rankCustomers(byCustomer map[string]decimal.Decimal, limit int) []model.CustomerRevenue {
	type ranked struct {
		id    string
		total decimal.Decimal
	}
	all := make([]ranked, 0, len(byCustomer))
	for id, total := range byCustomer {
		all = append(all, ranked{id: id, total: total})
	}

	slices.SortFunc(all, func(a, b ranked) int {
		if c := b.total.Cmp(a.total); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]model.CustomerRevenue, len(all))
	for i, r := range all {
		out[i] = model.CustomerRevenue{CustomerID: r.id, Revenue: r.total.InexactFloat64()}
	}
	return out
}

func proportions(counts map[string]int, total int) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for k, n := range counts {
		out[k] = float64(n) / float64(total)
	}
	return out
}

func toFloatMap(sums map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = v.InexactFloat64()
	}
	return out
}
