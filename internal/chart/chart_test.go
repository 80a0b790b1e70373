package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/internal/model"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func sampleBundle() model.MetricsBundle {
	return model.NewMetricsBundle(model.MetricsBundleParams{
		RecordCount:       3,
		TotalRevenue:      60,
		RevenueByCategory: map[string]float64{"Books": 10, "Toys": 50},
	})
}

func TestRenderAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	monthly := []model.MonthlyPoint{
		{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: 10},
		{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Revenue: 0},
		{Month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Revenue: 50},
	}

	paths, err := NewRenderer(5).RenderAll(dir, sampleBundle(), monthly, []float64{10, 20, 30})
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(dir, RevenueByCategoryFile),
		filepath.Join(dir, MonthlyTrendFile),
		filepath.Join(dir, OrderDistributionFile),
	}, paths)
	for _, p := range paths {
		assertPNG(t, p)
	}
}

func TestRenderSinglePointSeries(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(0)
	assert.Equal(t, DefaultBins, r.Bins)

	require.NoError(t, r.MonthlyTrend(filepath.Join(dir, "m.png"), []model.MonthlyPoint{
		{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: 10},
	}))
	require.NoError(t, r.OrderDistribution(filepath.Join(dir, "h.png"), []float64{7, 7, 7}))
	assertPNG(t, filepath.Join(dir, "m.png"))
	assertPNG(t, filepath.Join(dir, "h.png"))
}

func TestRenderNoData(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(10)

	assert.ErrorIs(t, r.RevenueByCategory(filepath.Join(dir, "a.png"), model.NewMetricsBundle(model.MetricsBundleParams{})), ErrNoData)
	assert.ErrorIs(t, r.MonthlyTrend(filepath.Join(dir, "b.png"), nil), ErrNoData)
	assert.ErrorIs(t, r.OrderDistribution(filepath.Join(dir, "c.png"), nil), ErrNoData)

	_, err := r.RenderAll(dir, model.NewMetricsBundle(model.MetricsBundleParams{}), nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
}
