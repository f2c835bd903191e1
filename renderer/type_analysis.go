package renderer

import (
	"fmt"

	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
)

// Analysis is the printable form of a portfolio analysis.
// Amounts and ratios are already typed for display (Money, Percent).
type Analysis struct {
	Provider    string            `json:"provider"`
	Benchmark   string            `json:"benchmark"`
	From        date.Date         `json:"from"`
	To          date.Date         `json:"to"`
	Investment  portfolio.Money   `json:"investment"`
	FinalValue  portfolio.Money   `json:"finalValue"`
	Gain        portfolio.Money   `json:"gain"`
	TotalReturn portfolio.Percent `json:"totalReturn"`
	Allocation  []AllocationLine  `json:"allocation"`
	Metrics     []MetricLine      `json:"metrics"`
	Signals     []SignalLine      `json:"signals"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// AllocationLine is the weight of a ticker.
type AllocationLine struct {
	Ticker string            `json:"ticker"`
	Weight portfolio.Percent `json:"weight"`
}

// MetricLine compares a metric of the portfolio with the benchmark's.
type MetricLine struct {
	Name      string `json:"name"`
	Portfolio string `json:"portfolio"`
	Benchmark string `json:"benchmark"`
	// Indicator is up when the portfolio figure is above the benchmark's.
	Indicator string `json:"indicator"`
}

// SignalLine is the latest recommendation of a ticker.
type SignalLine struct {
	Ticker    string           `json:"ticker"`
	Date      date.Date        `json:"date"`
	Close     string           `json:"close"`
	MA50      string           `json:"ma50"`
	MA200     string           `json:"ma200"`
	RSI       string           `json:"rsi"`
	Trend     portfolio.Signal `json:"trend"`
	RSISignal portfolio.Signal `json:"rsiSignal"`
}

// NewAnalysis prepares a for rendering.
func NewAnalysis(a *portfolio.Analysis) *Analysis {
	investment := portfolio.M(a.Request.Investment, a.Request.Currency)
	final := a.FinalValue()
	v := &Analysis{
		Provider:    a.Provider,
		Benchmark:   a.BenchmarkTicker,
		From:        a.Request.From,
		To:          a.Request.To,
		Investment:  investment,
		FinalValue:  final,
		Gain:        final.Sub(investment),
		TotalReturn: portfolio.AsPercent(final.Float()/investment.Float() - 1),
		Warnings:    a.Warnings,
	}
	for _, r := range a.Allocation.Rows() {
		v.Allocation = append(v.Allocation, AllocationLine{Ticker: r.Ticker, Weight: portfolio.AsPercent(r.Weight)})
	}

	p, b := a.Portfolio, a.Benchmark
	percent := func(x float64) string { return portfolio.AsPercent(x).String() }
	v.Metrics = []MetricLine{
		metricLine("Annual Return", p.AnnualReturn, b.AnnualReturn, percent),
		metricLine("Annual Volatility", p.AnnualVolatility, b.AnnualVolatility, percent),
		metricLine("Sharpe Ratio", p.SharpeRatio, b.SharpeRatio, ratio),
		metricLine("Beta", p.Beta, b.Beta, ratio),
		metricLine("Treynor Ratio", p.TreynorRatio, b.TreynorRatio, ratio),
	}
	v.Signals = NewSignalLines(a.Recommendations())
	return v
}

// NewSignalLines prepares recommendations for rendering.
func NewSignalLines(recs []portfolio.Recommendation) []SignalLine {
	lines := make([]SignalLine, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, SignalLine{
			Ticker:    r.Ticker,
			Date:      r.Date,
			Close:     ratio(r.Close),
			MA50:      value(r.MA50),
			MA200:     value(r.MA200),
			RSI:       value(r.RSI),
			Trend:     r.Trend,
			RSISignal: r.RSISignal,
		})
	}
	return lines
}

func metricLine(name string, p, b float64, format func(float64) string) MetricLine {
	indicator := "📉"
	if portfolio.Better(p, b) {
		indicator = "📈"
	}
	return MetricLine{Name: name, Portfolio: format(p), Benchmark: format(b), Indicator: indicator}
}

func ratio(x float64) string { return fmt.Sprintf("%.2f", x) }

func value(v portfolio.Value) string {
	if !v.Valid {
		return "-"
	}
	return ratio(v.Float)
}
