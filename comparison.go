package portfolio

import (
	"fmt"

	"github.com/tickerlab/portfolio/date"
)

// ComparisonRow is one day of the portfolio versus benchmark table, both rebased to 100.
type ComparisonRow struct {
	Date      date.Date `json:"date"`
	Portfolio float64   `json:"portfolio"`
	Benchmark float64   `json:"benchmark"`
}

// Compare rebases value and benchmark to 100 on their first common day.
func Compare(value, benchmark date.History[float64]) ([]ComparisonRow, error) {
	days := date.Intersect(value, benchmark)
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: portfolio and benchmark have no common date", ErrInsufficientOverlap)
	}
	pv, err := Normalize(value.Restrict(days), 100)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	bv, err := Normalize(benchmark.Restrict(days), 100)
	if err != nil {
		return nil, fmt.Errorf("benchmark: %w", err)
	}
	rows := make([]ComparisonRow, len(days))
	for i, on := range days {
		_, p := pv.At(i)
		_, b := bv.At(i)
		rows[i] = ComparisonRow{Date: on, Portfolio: p, Benchmark: b}
	}
	return rows, nil
}
