package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// Provider is a source of daily closing prices.
type Provider interface {
	// Name identifies the provider in logs and reports.
	Name() string
	// Benchmark returns the provider's ticker for the benchmark index.
	Benchmark() string
	// Daily returns the daily closes of ticker between from and to, both included.
	// Days without a close are absent. It returns an error wrapping
	// ErrDataUnavailable when the ticker is unknown to the provider.
	Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error)
}

// Prices holds the series fetched for an analysis.
type Prices struct {
	Range           date.Range
	Tickers         map[string]date.History[float64] // restricted to common trading days
	BenchmarkTicker string
	Benchmark       date.History[float64]
	Dropped         []string // tickers without data, in request order
}

// Priced returns the tickers that have prices, sorted.
func (p *Prices) Priced() []string {
	tickers := make([]string, 0, len(p.Tickers))
	for t := range p.Tickers {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)
	return tickers
}

// FetchPrices fetches the daily closes of tickers and of the provider's benchmark.
//
// Tickers without data are dropped and listed in Prices.Dropped, this is not
// an error unless no ticker has data at all. The series of the remaining
// tickers are restricted to the days where all of them have a close.
func FetchPrices(ctx context.Context, p Provider, tickers []string, from, to date.Date, logger *zap.Logger) (*Prices, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: no ticker to fetch", ErrConfiguration)
	}
	r, err := date.NewRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	prices := &Prices{
		Range:           r,
		Tickers:         make(map[string]date.History[float64], len(tickers)),
		BenchmarkTicker: p.Benchmark(),
	}
	for _, t := range tickers {
		if _, done := prices.Tickers[t]; done {
			continue
		}
		h, err := p.Daily(ctx, t, from, to)
		if errors.Is(err, ErrDataUnavailable) || (err == nil && h.Len() == 0) {
			logger.Warn("no price data, ticker dropped",
				zap.String("provider", p.Name()), zap.String("ticker", t), zap.Stringer("range", r))
			prices.Dropped = append(prices.Dropped, t)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot fetch %s from %s: %w", t, p.Name(), err)
		}
		prices.Tickers[t] = h
	}
	if len(prices.Tickers) == 0 {
		return nil, fmt.Errorf("%w: no price for %s in %s", ErrDataUnavailable, strings.Join(tickers, ", "), r)
	}

	bench, err := p.Daily(ctx, prices.BenchmarkTicker, from, to)
	if err != nil && !errors.Is(err, ErrDataUnavailable) {
		return nil, fmt.Errorf("cannot fetch benchmark %s from %s: %w", prices.BenchmarkTicker, p.Name(), err)
	}
	if bench.Len() == 0 {
		return nil, fmt.Errorf("%w: no benchmark data for %s in %s", ErrDataUnavailable, prices.BenchmarkTicker, r)
	}
	prices.Benchmark = bench

	series := make([]date.History[float64], 0, len(prices.Tickers))
	for _, t := range prices.Priced() {
		series = append(series, prices.Tickers[t])
	}
	days := date.Intersect(series...)
	for t, h := range prices.Tickers {
		prices.Tickers[t] = h.Restrict(days)
	}
	logger.Debug("prices fetched",
		zap.String("provider", p.Name()),
		zap.Strings("tickers", prices.Priced()),
		zap.Int("days", len(days)),
		zap.Int("benchmark_days", bench.Len()))
	return prices, nil
}
