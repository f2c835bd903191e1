package report

import (
	"fmt"

	"github.com/tickerlab/portfolio"
	"github.com/vicanso/go-charts/v2"
)

// Charts renders the portfolio versus benchmark chart, and for each ticker
// its price with moving averages and its RSI.
func Charts(a *portfolio.Analysis) ([]Chart, error) {
	if len(a.Comparison) == 0 {
		return nil, fmt.Errorf("%w: no portfolio data to chart", ErrExport)
	}
	var result []Chart

	labels := make([]string, len(a.Comparison))
	pv := make([]float64, len(a.Comparison))
	bv := make([]float64, len(a.Comparison))
	for i, r := range a.Comparison {
		labels[i] = r.Date.String()
		pv[i], bv[i] = r.Portfolio, r.Benchmark
	}
	png, err := lineChart("Portfolio vs "+a.BenchmarkTicker+" Performance", labels,
		[]string{"Portfolio", a.BenchmarkTicker}, pv, bv)
	if err != nil {
		return nil, err
	}
	result = append(result, Chart{Name: "comparison", PNG: png})

	for _, t := range a.Prices.Priced() {
		s := a.Signals[t]
		if len(s) == 0 {
			continue
		}
		labels := make([]string, len(s))
		closes := make([]float64, len(s))
		for i, p := range s {
			labels[i] = p.Date.String()
			closes[i] = p.Close
		}
		ma50 := values(s.Column(func(p portfolio.SignalPoint) portfolio.Value { return p.MA50 }))
		ma200 := values(s.Column(func(p portfolio.SignalPoint) portfolio.Value { return p.MA200 }))
		png, err := lineChart(t+" Stock Price", labels, []string{t, "50-day MA", "200-day MA"}, closes, ma50, ma200)
		if err != nil {
			return nil, err
		}
		result = append(result, Chart{Name: t + "-price", PNG: png})

		rsi := values(s.Column(func(p portfolio.SignalPoint) portfolio.Value { return p.RSI }))
		png, err = lineChart(t+" RSI (Relative Strength Index)", labels, []string{"RSI"}, rsi)
		if err != nil {
			return nil, err
		}
		result = append(result, Chart{Name: t + "-rsi", PNG: png})
	}
	return result, nil
}

// values maps undefined indicator values to the chart's null value, they are not drawn.
func values(col []portfolio.Value) []float64 {
	r := make([]float64, len(col))
	for i, v := range col {
		if v.Valid {
			r[i] = v.Float
		} else {
			r[i] = charts.GetNullValue()
		}
	}
	return r
}

func lineChart(title string, labels, names []string, series ...[]float64) ([]byte, error) {
	split := 6
	if len(labels) < 18 {
		split = max(len(labels)/3, 1)
	}
	list := charts.NewSeriesListDataFromValues(series, charts.ChartTypeLine)
	for i := range list {
		list[i].Name = names[i]
	}
	p, err := charts.Render(charts.ChartOption{SeriesList: list},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot render %q: %v", ErrExport, title, err)
	}
	png, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode %q: %v", ErrExport, title, err)
	}
	return png, nil
}
