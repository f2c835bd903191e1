package portfolio

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// WeightTolerance is the accepted gap between the sum of weights and 1.
const WeightTolerance = 1e-9

// Allocation maps a ticker to its weight in the portfolio, as a fraction in [0,1].
//
// A valid allocation has weights summing to 1.
type Allocation map[string]float64

// AllocationRow is one line of the allocation table.
type AllocationRow struct {
	Ticker string
	Weight float64
}

// ParseAllocation parses weights in the form "TICKER=WEIGHT".
//
// Each argument can hold several comma separated weights. A weight is either
// a fraction "0.25" or a percentage "25%". Tickers are upper cased.
func ParseAllocation(args ...string) (Allocation, error) {
	alloc := make(Allocation)
	for _, arg := range args {
		for _, item := range strings.Split(arg, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			ticker, weight, err := parseWeight(item)
			if err != nil {
				return nil, err
			}
			if _, exists := alloc[ticker]; exists {
				return nil, fmt.Errorf("%w: duplicate weight for %s", ErrConfiguration, ticker)
			}
			alloc[ticker] = weight
		}
	}
	return alloc, nil
}

func parseWeight(item string) (string, float64, error) {
	ticker, w, ok := strings.Cut(item, "=")
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	w = strings.TrimSpace(w)
	if !ok || ticker == "" || w == "" {
		return "", 0, fmt.Errorf("%w: invalid weight %q want TICKER=WEIGHT", ErrConfiguration, item)
	}
	percent := strings.HasSuffix(w, "%")
	w = strings.TrimSpace(strings.TrimSuffix(w, "%"))
	d, err := decimal.NewFromString(w)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid weight for %s: %v", ErrConfiguration, ticker, err)
	}
	if percent {
		d = d.Div(decimal.NewFromInt(100))
	}
	return ticker, d.InexactFloat64(), nil
}

// Tickers returns the allocation tickers in sorted order.
func (a Allocation) Tickers() []string { return slices.Sorted(maps.Keys(a)) }

// Sum returns the sum of weights, accumulated in ticker order.
func (a Allocation) Sum() float64 {
	var sum float64
	for _, t := range a.Tickers() {
		sum += a[t]
	}
	return sum
}

// Validate checks that the allocation is not empty, that every weight is in
// [0,1] and that weights sum to 1 within WeightTolerance.
func (a Allocation) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("%w: empty allocation", ErrConfiguration)
	}
	for _, t := range a.Tickers() {
		if w := a[t]; math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %s is %v, want a fraction in [0,1]", ErrConfiguration, t, w)
		}
	}
	if sum := a.Sum(); math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: portfolio weights sum to %v, want 1 (100%%)", ErrConfiguration, sum)
	}
	return nil
}

// Restrict returns a copy of the allocation limited to tickers.
func (a Allocation) Restrict(tickers []string) Allocation {
	r := make(Allocation, len(tickers))
	for _, t := range tickers {
		if w, ok := a[t]; ok {
			r[t] = w
		}
	}
	return r
}

// Renormalize returns a copy of the allocation with weights scaled to sum to 1.
func (a Allocation) Renormalize() (Allocation, error) {
	sum := a.Sum()
	if sum == 0 {
		return nil, fmt.Errorf("%w: cannot renormalize an allocation with no weight", ErrConfiguration)
	}
	r := make(Allocation, len(a))
	for t, w := range a {
		r[t] = w / sum
	}
	return r, nil
}

// Rows returns the allocation table, sorted by ticker.
func (a Allocation) Rows() []AllocationRow {
	rows := make([]AllocationRow, 0, len(a))
	for _, t := range a.Tickers() {
		rows = append(rows, AllocationRow{Ticker: t, Weight: a[t]})
	}
	return rows
}
