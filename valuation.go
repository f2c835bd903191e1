package portfolio

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tickerlab/portfolio/date"
)

// Normalize returns the series divided by its first value and multiplied by scale.
//
// The first point of the result is exactly scale.
func Normalize(h date.History[float64], scale float64) (date.History[float64], error) {
	var n date.History[float64]
	if h.Len() == 0 {
		return n, fmt.Errorf("%w: cannot normalize an empty series", ErrInsufficientData)
	}
	day0, first := h.First()
	if first == 0 {
		return n, fmt.Errorf("%w: series starts with a zero value on %s", ErrInsufficientData, day0)
	}
	for on, v := range h.Values() {
		n.Append(on, v/first*scale)
	}
	return n, nil
}

// Valuate computes the value over time of investment split across tickers according to alloc.
//
// Price series are restricted to their common dates, normalized by their
// first value, weighted and summed. The allocation must cover exactly the
// tickers in prices.
func Valuate(prices map[string]date.History[float64], alloc Allocation, investment float64) (date.History[float64], error) {
	var value date.History[float64]
	if !(investment > 0) {
		return value, fmt.Errorf("%w: initial investment must be positive, got %v", ErrConfiguration, investment)
	}
	if err := alloc.Validate(); err != nil {
		return value, err
	}
	tickers := slices.Sorted(maps.Keys(prices))
	if !slices.Equal(tickers, alloc.Tickers()) {
		return value, fmt.Errorf("%w: allocation tickers %v do not match priced tickers %v", ErrConfiguration, alloc.Tickers(), tickers)
	}

	series := make([]date.History[float64], 0, len(tickers))
	for _, t := range tickers {
		h := prices[t]
		if h.Len() == 0 {
			return value, fmt.Errorf("%w: no price for %s", ErrInsufficientData, t)
		}
		series = append(series, h)
	}
	days := date.Intersect(series...)
	if len(days) == 0 {
		return value, fmt.Errorf("%w: tickers %v have no common trading day", ErrInsufficientData, tickers)
	}

	normalized := make([]date.History[float64], len(series))
	for i, h := range series {
		n, err := Normalize(h.Restrict(days), 1)
		if err != nil {
			return value, fmt.Errorf("cannot value %s: %w", tickers[i], err)
		}
		normalized[i] = n
	}

	for j, on := range days {
		var sum float64
		for i, t := range tickers {
			_, v := normalized[i].At(j)
			sum += alloc[t] * v
		}
		value.Append(on, sum*investment)
	}
	return value, nil
}
