package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/model"
)

func TestMonthlyRevenueFillsGaps(t *testing.T) {
	records := []model.CleanRecord{
		{OrderDate: day(2024, 3, 20), OrderAmount: 5},
		{OrderDate: day(2023, 12, 31), OrderAmount: 0.1},
		{OrderDate: day(2024, 3, 1), OrderAmount: 10},
		{OrderDate: day(2023, 12, 1), OrderAmount: 0.2},
	}

	points := MonthlyRevenue(records)

	require.Len(t, points, 4)
	assert.Equal(t, []model.MonthlyPoint{
		{Month: day(2023, 12, 1), Revenue: 0.3},
		{Month: day(2024, 1, 1), Revenue: 0},
		{Month: day(2024, 2, 1), Revenue: 0},
		{Month: day(2024, 3, 1), Revenue: 15},
	}, points)
}

func TestMonthlyRevenueSingleMonth(t *testing.T) {
	points := MonthlyRevenue([]model.CleanRecord{{OrderDate: day(2024, 5, 9), OrderAmount: 3}})
	require.Len(t, points, 1)
	assert.Equal(t, time.May, points[0].Month.Month())
	assert.Nil(t, MonthlyRevenue(nil))
}

func TestOrderAmounts(t *testing.T) {
	amounts := OrderAmounts([]model.CleanRecord{{OrderAmount: 3}, {OrderAmount: 1.5}})
	assert.Equal(t, []float64{3, 1.5}, amounts)
	assert.Empty(t, OrderAmounts(nil))
}
