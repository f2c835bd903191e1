package portfolio

import (
	"fmt"
	"math"

	"github.com/tickerlab/portfolio/date"
)

// TradingDays is the number of trading days used to annualize daily figures.
const TradingDays = 252

// DefaultRiskFreeRate is the annual risk free rate used when none is given.
const DefaultRiskFreeRate = 0.02

// Metrics holds the risk and return figures of a value series against a benchmark.
type Metrics struct {
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	Beta             float64 `json:"beta"`
	TreynorRatio     float64 `json:"treynor_ratio"`
}

// PctChange returns the day over day relative change of the series.
//
// The first point has no previous value and is dropped.
func PctChange(h date.History[float64]) (date.History[float64], error) {
	var r date.History[float64]
	for i := 1; i < h.Len(); i++ {
		prevDay, prev := h.At(i - 1)
		on, v := h.At(i)
		if prev == 0 {
			return r, fmt.Errorf("%w: zero value on %s", ErrInsufficientData, prevDay)
		}
		r.Append(on, v/prev-1)
	}
	return r, nil
}

// ComputeMetrics computes the annualized return, volatility, Sharpe ratio,
// beta and Treynor ratio of value against benchmark.
//
// Daily returns of both series are aligned on their common dates.
func ComputeMetrics(value, benchmark date.History[float64], riskFreeRate float64) (Metrics, error) {
	var m Metrics
	vr, err := PctChange(value)
	if err != nil {
		return m, fmt.Errorf("portfolio returns: %w", err)
	}
	br, err := PctChange(benchmark)
	if err != nil {
		return m, fmt.Errorf("benchmark returns: %w", err)
	}

	days := date.Intersect(vr, br)
	if len(days) == 0 {
		return m, fmt.Errorf("%w: no common date between portfolio and benchmark returns", ErrInsufficientOverlap)
	}
	if len(days) < 2 {
		return m, fmt.Errorf("%w: need at least two aligned returns, got %d", ErrInsufficientData, len(days))
	}
	vr, br = vr.Restrict(days), br.Restrict(days)
	returns, benchReturns := vr.Slice(), br.Slice()

	m.AnnualReturn = mean(returns) * TradingDays
	m.AnnualVolatility = math.Sqrt(variance(returns)) * math.Sqrt(TradingDays)

	benchVar := variance(benchReturns)
	if benchVar == 0 {
		return m, fmt.Errorf("%w: benchmark returns have zero variance, beta is undefined", ErrDivisionByZero)
	}
	m.Beta = covariance(returns, benchReturns) / benchVar

	excess := m.AnnualReturn - riskFreeRate
	if m.AnnualVolatility == 0 {
		return m, fmt.Errorf("%w: portfolio has zero volatility, Sharpe ratio is undefined", ErrDivisionByZero)
	}
	m.SharpeRatio = excess / m.AnnualVolatility

	if m.Beta == 0 {
		return m, fmt.Errorf("%w: portfolio beta is zero, Treynor ratio is undefined", ErrDivisionByZero)
	}
	m.TreynorRatio = excess / m.Beta
	return m, nil
}

// mean is the arithmetic mean, summed left to right.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// covariance is the sample covariance (n-1 denominator). It is zero for less than two points.
func covariance(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(n-1)
}

// variance is the sample variance, i.e. the covariance of xs with itself.
func variance(xs []float64) float64 { return covariance(xs, xs) }

// Better reports whether a portfolio figure is above the benchmark's, it
// drives the up or down indicator shown next to each metric.
func Better(portfolio, benchmark float64) bool { return portfolio > benchmark }
