// Package chart renders the run's PNG charts with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"sales-analytics/internal/model"
)

// Output file names, relative to the figures directory.
const (
	RevenueByCategoryFile = "revenue_by_category.png"
	MonthlyTrendFile      = "monthly_trend.png"
	OrderDistributionFile = "order_distribution.png"
)

// DefaultBins is the histogram bin count used when none is configured.
const DefaultBins = 20

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("chart: no data")

// Renderer draws the three sales charts.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
	Bins   int
}

// NewRenderer returns an 8x5 inch renderer with the given histogram bins.
func NewRenderer(bins int) *Renderer {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &Renderer{Width: 8 * vg.Inch, Height: 5 * vg.Inch, Bins: bins}
}

// RenderAll writes every chart into dir and returns the written paths.
func (r *Renderer) RenderAll(dir string, bundle model.MetricsBundle, monthly []model.MonthlyPoint, amounts []float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create figures dir: %w", err)
	}

	steps := []struct {
		file   string
		render func(string) error
	}{
		{RevenueByCategoryFile, func(p string) error { return r.RevenueByCategory(p, bundle) }},
		{MonthlyTrendFile, func(p string) error { return r.MonthlyTrend(p, monthly) }},
		{OrderDistributionFile, func(p string) error { return r.OrderDistribution(p, amounts) }},
	}

	paths := make([]string, 0, len(steps))
	for _, s := range steps {
		path := filepath.Join(dir, s.file)
		if err := s.render(path); err != nil {
			return paths, fmt.Errorf("%s: %w", s.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RevenueByCategory draws one bar per category, categories in name order.
func (r *Renderer) RevenueByCategory(path string, bundle model.MetricsBundle) error {
	categories := bundle.Categories()
	if len(categories) == 0 {
		return ErrNoData
	}
	revenue := bundle.RevenueByCategory()
	values := make(plotter.Values, len(categories))
	for i, c := range categories {
		values[i] = revenue[c]
	}

	p := plot.New()
	p.Title.Text = "Revenue by Category"
	p.Y.Label.Text = "Revenue"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)

	p.Add(bars)
	p.NominalX(categories...)

	return r.save(p, path)
}

// MonthlyTrend draws monthly revenue as a line over time.
func (r *Renderer) MonthlyTrend(path string, points []model.MonthlyPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.Month.Unix()), Y: pt.Revenue}
	}

	p := plot.New()
	p.Title.Text = "Monthly Revenue Trend"
	p.Y.Label.Text = "Revenue"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("line: %w", err)
	}
	line.Width = vg.Points(1.5)
	line.Color = plotutil.Color(0)
	scatter.GlyphStyle.Color = plotutil.Color(0)
	p.Add(line, scatter)

	return r.save(p, path)
}

// OrderDistribution draws a histogram of order amounts.
func (r *Renderer) OrderDistribution(path string, amounts []float64) error {
	if len(amounts) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Order Value Distribution"
	p.X.Label.Text = "Order Amount"

	hist, err := plotter.NewHist(plotter.Values(amounts), r.Bins)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	hist.FillColor = plotutil.Color(2)
	p.Add(hist)

	return r.save(p, path)
}

func (r *Renderer) save(p *plot.Plot, path string) error {
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
