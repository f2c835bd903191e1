// Package report exports an analysis as downloadable artifacts: a spreadsheet
// workbook, a PDF document and PNG charts.
package report

import (
	"errors"
	"fmt"

	"github.com/tickerlab/portfolio"
)

// ErrExport is wrapped by every export failure.
//
// Export failures never invalidate the analysis they were built from.
var ErrExport = errors.New("export error")

// Default file names of the artifacts.
const (
	XLSXFile = "portfolio_report.xlsx"
	PDFFile  = "portfolio_report.pdf"
)

// Sheet names of the workbook.
const (
	DataSheet    = "Portfolio Data"
	MetricsSheet = "Performance Metrics"
)

// Tables are the data exported in reports.
type Tables struct {
	Benchmark  string                    // benchmark ticker, used as a column header
	Comparison []portfolio.ComparisonRow // portfolio and benchmark rebased to 100
	Allocation []portfolio.AllocationRow
	Portfolio  portfolio.Metrics
	Reference  portfolio.Metrics // benchmark metrics
}

// FromAnalysis collects the tables of a.
func FromAnalysis(a *portfolio.Analysis) Tables {
	return Tables{
		Benchmark:  a.BenchmarkTicker,
		Comparison: a.Comparison,
		Allocation: a.Allocation.Rows(),
		Portfolio:  a.Portfolio,
		Reference:  a.Benchmark,
	}
}

func (t Tables) validate() error {
	if len(t.Comparison) == 0 {
		return fmt.Errorf("%w: no portfolio data to export", ErrExport)
	}
	if len(t.Allocation) == 0 {
		return fmt.Errorf("%w: no allocation to export", ErrExport)
	}
	return nil
}

func (t Tables) benchmarkHeader() string {
	if t.Benchmark == "" {
		return "Benchmark"
	}
	return t.Benchmark
}

// dataHeader is the header of the comparison table.
func (t Tables) dataHeader() []string {
	return []string{"Date", "Portfolio", t.benchmarkHeader()}
}

// metricRows returns the metrics table as text, header first.
func (t Tables) metricRows() [][]string {
	p, b := t.Portfolio, t.Reference
	return [][]string{
		{"Metric", "Portfolio", t.benchmarkHeader()},
		{"Annual Return", portfolio.AsPercent(p.AnnualReturn).String(), portfolio.AsPercent(b.AnnualReturn).String()},
		{"Annual Volatility", portfolio.AsPercent(p.AnnualVolatility).String(), portfolio.AsPercent(b.AnnualVolatility).String()},
		{"Sharpe Ratio", ratio(p.SharpeRatio), ratio(b.SharpeRatio)},
		{"Beta", ratio(p.Beta), ratio(b.Beta)},
		{"Treynor Ratio", ratio(p.TreynorRatio), ratio(b.TreynorRatio)},
	}
}

func ratio(v float64) string { return fmt.Sprintf("%.2f", v) }
