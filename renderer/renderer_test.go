package renderer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func testAnalysis() *portfolio.Analysis {
	day := date.New(2023, 1, 2)
	var value date.History[float64]
	value.Append(day, 1000)
	value.Append(day.Add(1), 1100)
	req := portfolio.NewRequest(portfolio.Allocation{"AAPL": 0.5, "MSFT": 0.5}, day, day.Add(1), 1000)
	return &portfolio.Analysis{
		Request:         req,
		Provider:        "fake",
		BenchmarkTicker: "^GSPC",
		Allocation:      req.Allocation,
		Prices:          &portfolio.Prices{Tickers: map[string]date.History[float64]{"AAPL": value, "MSFT": value}},
		Value:           value,
		Portfolio:       portfolio.Metrics{AnnualReturn: 0.12, AnnualVolatility: 0.2, SharpeRatio: 0.5, Beta: 1.1, TreynorRatio: 0.09},
		Benchmark:       portfolio.Metrics{AnnualReturn: 0.08, AnnualVolatility: 0.25, SharpeRatio: 0.4, Beta: 1, TreynorRatio: 0.06},
		Signals: map[string]portfolio.SignalSeries{
			"AAPL": {{Date: day.Add(1), Close: 185.5, RSI: portfolio.Defined(75), Trend: portfolio.NoSignal, RSISignal: portfolio.Sell}},
			"MSFT": {{Date: day.Add(1), Close: 370, MA50: portfolio.Defined(360), MA200: portfolio.Defined(350), RSI: portfolio.Defined(50), Trend: portfolio.Buy, RSISignal: portfolio.Hold}},
		},
		Warnings: []string{"no price data for NFLX, dropped from the analysis"},
	}
}

// tables parses markdown and returns the cells of each table, header row first.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	var result [][][]string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			result = append(result, nil)
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, strings.TrimSpace(string(c.Text(src))))
			}
			result[len(result)-1] = append(result[len(result)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestRenderAnalysis(t *testing.T) {
	md := RenderAnalysis(NewAnalysis(testAnalysis()))
	if strings.Contains(md, "error ") {
		t.Fatalf("RenderAnalysis() failed:\n%s", md)
	}
	for _, want := range []string{
		"# Portfolio Performance from 2023-01-02 to 2023-01-03",
		"## Performance Metrics",
		"## Buy/Sell Recommendations",
		"## Warnings",
		"- no price data for NFLX",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderAnalysis() does not contain %q:\n%s", want, md)
		}
	}

	got := tables(t, md)
	if len(got) != 3 {
		t.Fatalf("RenderAnalysis() has %d tables want 3:\n%s", len(got), md)
	}
	wantAlloc := [][]string{{"Ticker", "Weight"}, {"AAPL", "50.00%"}, {"MSFT", "50.00%"}}
	if diff := cmp.Diff(wantAlloc, got[0]); diff != "" {
		t.Errorf("allocation table mismatch (-want +got):\n%s", diff)
	}
	metrics := got[1]
	if len(metrics) != 6 {
		t.Errorf("metrics table has %d rows want 6", len(metrics))
	}
	if diff := cmp.Diff([]string{"Annual Return", "12.00%", "8.00%", "📈"}, metrics[1]); diff != "" {
		t.Errorf("annual return row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Annual Volatility", "20.00%", "25.00%", "📉"}, metrics[2]); diff != "" {
		t.Errorf("annual volatility row mismatch (-want +got):\n%s", diff)
	}
	wantSignals := [][]string{
		{"Ticker", "Date", "Close", "MA50", "MA200", "RSI", "Recommendation", "RSI Signal"},
		{"AAPL", "2023-01-03", "185.50", "-", "-", "75.00", "-", "Sell"},
		{"MSFT", "2023-01-03", "370.00", "360.00", "350.00", "50.00", "Buy", "Hold"},
	}
	if diff := cmp.Diff(wantSignals, got[2]); diff != "" {
		t.Errorf("signals table mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSignals(t *testing.T) {
	a := testAnalysis()
	a.Warnings = nil
	md := RenderSignals(NewAnalysis(a))
	if strings.Contains(md, "## Warnings") {
		t.Errorf("RenderSignals() without warnings has a warnings section:\n%s", md)
	}
	got := tables(t, md)
	if len(got) != 1 || len(got[0]) != 3 {
		t.Errorf("RenderSignals() tables = %v want one table of 3 rows", got)
	}
}

func TestNewAnalysisGain(t *testing.T) {
	v := NewAnalysis(testAnalysis())
	if got := v.Gain.SignedString(); got != "+$100.00" {
		t.Errorf("Gain = %s want +$100.00", got)
	}
	if got := v.TotalReturn.SignedString(); got != "+10.00%" {
		t.Errorf("TotalReturn = %s want +10.00%%", got)
	}
	md := RenderAnalysis(v)
	if want := "is worth **$1,100.00** (+$100.00, +10.00%)"; !strings.Contains(md, want) {
		t.Errorf("RenderAnalysis() does not contain %q:\n%s", want, md)
	}
}
