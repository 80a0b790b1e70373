package model

import (
	"encoding/json"
	"maps"
	"slices"
)

// CustomerRevenue is one entry of the top-customers ranking.
type CustomerRevenue struct {
	CustomerID string  `json:"customer_id"`
	Revenue    float64 `json:"revenue"`
}

// MetricsBundle is the immutable result of aggregating a set of clean records.
// All accessors return copies; a bundle never changes after NewMetricsBundle.
type MetricsBundle struct {
	recordCount        int
	totalRevenue       float64
	averageOrderValue  float64
	customerCount      int
	revenueByCategory  map[string]float64
	topCustomers       []CustomerRevenue
	statusDistribution map[string]float64
}

// MetricsBundleParams carries the computed values into a bundle.
type MetricsBundleParams struct {
	RecordCount        int
	TotalRevenue       float64
	AverageOrderValue  float64
	CustomerCount      int
	RevenueByCategory  map[string]float64
	TopCustomers       []CustomerRevenue
	StatusDistribution map[string]float64
}

// NewMetricsBundle freezes the given values. The maps and slice are copied.
func NewMetricsBundle(p MetricsBundleParams) MetricsBundle {
	b := MetricsBundle{
		recordCount:        p.RecordCount,
		totalRevenue:       p.TotalRevenue,
		averageOrderValue:  p.AverageOrderValue,
		customerCount:      p.CustomerCount,
		revenueByCategory:  make(map[string]float64, len(p.RevenueByCategory)),
		topCustomers:       slices.Clone(p.TopCustomers),
		statusDistribution: make(map[string]float64, len(p.StatusDistribution)),
	}
	maps.Copy(b.revenueByCategory, p.RevenueByCategory)
	maps.Copy(b.statusDistribution, p.StatusDistribution)
	if b.topCustomers == nil {
		b.topCustomers = []CustomerRevenue{}
	}
	return b
}

func (b MetricsBundle) RecordCount() int           { return b.recordCount }
func (b MetricsBundle) TotalRevenue() float64      { return b.totalRevenue }
func (b MetricsBundle) AverageOrderValue() float64 { return b.averageOrderValue }
func (b MetricsBundle) CustomerCount() int         { return b.customerCount }

// RevenueByCategory returns category -> summed amount for every category present.
func (b MetricsBundle) RevenueByCategory() map[string]float64 {
	return maps.Clone(b.revenueByCategory)
}

// TopCustomers returns at most ten customers ranked by revenue.
func (b MetricsBundle) TopCustomers() []CustomerRevenue {
	return slices.Clone(b.topCustomers)
}

// StatusDistribution returns status -> share of records.
func (b MetricsBundle) StatusDistribution() map[string]float64 {
	return maps.Clone(b.statusDistribution)
}

// Categories returns the category names in ascending order.
func (b MetricsBundle) Categories() []string {
	return slices.Sorted(maps.Keys(b.revenueByCategory))
}

// Statuses returns the status values in ascending order.
func (b MetricsBundle) Statuses() []string {
	return slices.Sorted(maps.Keys(b.statusDistribution))
}

// IsEmpty reports whether the bundle was computed from zero records.
func (b MetricsBundle) IsEmpty() bool {
	return b.recordCount == 0
}

func (b MetricsBundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RecordCount        int                `json:"record_count"`
		TotalRevenue       float64            `json:"total_revenue"`
		AverageOrderValue  *float64           `json:"average_order_value"`
		CustomerCount      int                `json:"customer_count"`
		RevenueByCategory  map[string]float64 `json:"revenue_by_category"`
		TopCustomers       []CustomerRevenue  `json:"top_customers"`
		StatusDistribution map[string]float64 `json:"status_distribution"`
	}{
		RecordCount:        b.recordCount,
		TotalRevenue:       b.totalRevenue,
		AverageOrderValue:  b.averagePtr(),
		CustomerCount:      b.customerCount,
		RevenueByCategory:  b.RevenueByCategory(),
		TopCustomers:       b.TopCustomers(),
		StatusDistribution: b.StatusDistribution(),
	})
}

// averagePtr is nil when the mean is undefined.
func (b MetricsBundle) averagePtr() *float64 {
	if b.IsEmpty() {
		return nil
	}
	v := b.averageOrderValue
	return &v
}
