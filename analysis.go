package portfolio

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// Request describes one portfolio analysis.
type Request struct {
	Allocation   Allocation
	From, To     date.Date
	Investment   float64
	Currency     string
	RiskFreeRate float64
	// Renormalize rescales the weights of the tickers that have prices when
	// some tickers are dropped for lack of data. Otherwise dropping a ticker
	// with a non zero weight is a configuration error.
	Renormalize bool
}

// NewRequest returns a request with the default risk free rate and currency.
func NewRequest(alloc Allocation, from, to date.Date, investment float64) Request {
	return Request{
		Allocation:   alloc,
		From:         from,
		To:           to,
		Investment:   investment,
		Currency:     DefaultCurrency,
		RiskFreeRate: DefaultRiskFreeRate,
	}
}

// Validate checks the request without fetching anything.
func (r Request) Validate() error {
	if err := r.Allocation.Validate(); err != nil {
		return err
	}
	if _, err := date.NewRange(r.From, r.To); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if !(r.Investment > 0) || math.IsInf(r.Investment, 0) {
		return fmt.Errorf("%w: initial investment must be positive, got %v", ErrConfiguration, r.Investment)
	}
	if math.IsNaN(r.RiskFreeRate) || math.IsInf(r.RiskFreeRate, 0) {
		return fmt.Errorf("%w: invalid risk free rate %v", ErrConfiguration, r.RiskFreeRate)
	}
	return nil
}

// Analysis is the outcome of a Request.
type Analysis struct {
	Request         Request
	Provider        string
	BenchmarkTicker string
	Allocation      Allocation // effective allocation, after dropped tickers
	Prices          *Prices
	Value           date.History[float64] // portfolio value
	Portfolio       Metrics               // portfolio against benchmark
	Benchmark       Metrics               // benchmark against itself
	Signals         map[string]SignalSeries
	Comparison      []ComparisonRow
	Warnings        []string
}

// Run fetches prices from p and performs the analysis described by req.
//
// The request is validated first, an invalid request never reaches the provider.
func Run(ctx context.Context, p Provider, req Request, logger *zap.Logger) (*Analysis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prices, err := FetchPrices(ctx, p, req.Allocation.Tickers(), req.From, req.To, logger)
	if err != nil {
		return nil, err
	}
	a := &Analysis{
		Request:         req,
		Provider:        p.Name(),
		BenchmarkTicker: prices.BenchmarkTicker,
		Allocation:      req.Allocation,
		Prices:          prices,
		Signals:         make(map[string]SignalSeries, len(prices.Tickers)),
	}
	if len(prices.Dropped) > 0 {
		a.Warnings = append(a.Warnings, fmt.Sprintf("no price data for %s, dropped from the analysis", strings.Join(prices.Dropped, ", ")))
		alloc, err := effectiveAllocation(req, prices)
		if err != nil {
			return nil, err
		}
		if req.Renormalize {
			msg := fmt.Sprintf("weights renormalized over %s", strings.Join(alloc.Tickers(), ", "))
			logger.Warn(msg)
			a.Warnings = append(a.Warnings, msg)
		}
		a.Allocation = alloc
	}

	a.Value, err = Valuate(prices.Tickers, a.Allocation, req.Investment)
	if err != nil {
		return nil, err
	}
	a.Portfolio, err = ComputeMetrics(a.Value, prices.Benchmark, req.RiskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("portfolio metrics: %w", err)
	}
	a.Benchmark, err = ComputeMetrics(prices.Benchmark, prices.Benchmark, req.RiskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("benchmark metrics: %w", err)
	}
	for _, t := range prices.Priced() {
		a.Signals[t] = Signals(prices.Tickers[t])
	}
	a.Comparison, err = Compare(a.Value, prices.Benchmark)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// effectiveAllocation returns the allocation restricted to the priced tickers.
func effectiveAllocation(req Request, prices *Prices) (Allocation, error) {
	alloc := req.Allocation.Restrict(prices.Priced())
	if req.Renormalize {
		return alloc.Renormalize()
	}
	var lost []string
	for _, t := range prices.Dropped {
		if req.Allocation[t] != 0 {
			lost = append(lost, t)
		}
	}
	if len(lost) > 0 {
		return nil, fmt.Errorf("%w: %s have no price data but a non zero weight, adjust the weights or renormalize", ErrConfiguration, strings.Join(lost, ", "))
	}
	return alloc, nil
}

// FinalValue returns the last portfolio value.
func (a *Analysis) FinalValue() Money {
	_, v := a.Value.Latest()
	return M(v, a.Request.Currency)
}

// Recommendation is the latest signal of a ticker.
type Recommendation struct {
	Ticker string `json:"ticker"`
	SignalPoint
}

// Recommendations returns the latest signals of every priced ticker, sorted by ticker.
func (a *Analysis) Recommendations() []Recommendation {
	recs := make([]Recommendation, 0, len(a.Signals))
	for _, t := range a.Prices.Priced() {
		if last, ok := a.Signals[t].Latest(); ok {
			recs = append(recs, Recommendation{Ticker: t, SignalPoint: last})
		}
	}
	return recs
}

// Summary is the JSON friendly digest of an analysis.
type Summary struct {
	Provider        string           `json:"provider"`
	Benchmark       string           `json:"benchmark"`
	From            date.Date        `json:"from"`
	To              date.Date        `json:"to"`
	Investment      float64          `json:"investment"`
	FinalValue      float64          `json:"final_value"`
	Currency        string           `json:"currency"`
	Allocation      Allocation       `json:"allocation"`
	Portfolio       Metrics          `json:"portfolio"`
	BenchmarkResult Metrics          `json:"benchmark_metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// Summary returns the digest of the analysis.
func (a *Analysis) Summary() Summary {
	return Summary{
		Provider:        a.Provider,
		Benchmark:       a.BenchmarkTicker,
		From:            a.Request.From,
		To:              a.Request.To,
		Investment:      a.Request.Investment,
		FinalValue:      a.FinalValue().Float(),
		Currency:        a.FinalValue().Currency(),
		Allocation:      a.Allocation,
		Portfolio:       a.Portfolio,
		BenchmarkResult: a.Benchmark,
		Recommendations: a.Recommendations(),
		Warnings:        a.Warnings,
	}
}
