// Package report writes the plain-text summary of a pipeline run.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-analytics/internal/model"
)

const title = "Sales Analytics Report"

// TextReporter renders a MetricsBundle as a plain-text report.
type TextReporter struct {
	printer *message.Printer
}

// NewTextReporter returns a reporter formatting numbers for lang.
func NewTextReporter(lang language.Tag) *TextReporter {
	return &TextReporter{printer: message.NewPrinter(lang)}
}

// WriteReport renders bundle and replaces the file at path.
func (r *TextReporter) WriteReport(path string, bundle model.MetricsBundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := os.WriteFile(path, r.Render(bundle), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// Render returns the report text.
func (r *TextReporter) Render(bundle model.MetricsBundle) []byte {
	p := r.printer
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s\n%s\n\n", title, underline(len(title)))

	p.Fprintf(&b, "%-22s%d\n", "Orders:", bundle.RecordCount())
	p.Fprintf(&b, "%-22s%.2f\n", "Total revenue:", bundle.TotalRevenue())
	if bundle.IsEmpty() {
		fmt.Fprintf(&b, "%-22s%s\n", "Average order value:", "n/a")
	} else {
		p.Fprintf(&b, "%-22s%.2f\n", "Average order value:", bundle.AverageOrderValue())
	}
	p.Fprintf(&b, "%-22s%d\n", "Unique customers:", bundle.CustomerCount())

	b.WriteString("\nTop customers by revenue\n")
	top := bundle.TopCustomers()
	if len(top) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, c := range top {
		p.Fprintf(&b, "  %2d. %-20s %14.2f\n", i+1, c.CustomerID, c.Revenue)
	}

	b.WriteString("\nRevenue by category\n")
	revenue := bundle.RevenueByCategory()
	for _, cat := range bundle.Categories() {
		p.Fprintf(&b, "  %-24s %14.2f\n", cat, revenue[cat])
	}

	b.WriteString("\nStatus distribution\n")
	shares := bundle.StatusDistribution()
	for _, s := range bundle.Statuses() {
		p.Fprintf(&b, "  %-24s %6.1f%%\n", s, shares[s]*100)
	}

	return b.Bytes()
}

func underline(n int) string {
	return string(bytes.Repeat([]byte("="), n))
}
