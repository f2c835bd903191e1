package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"github.com/tickerlab/portfolio/renderer"
	"github.com/tickerlab/portfolio/report"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

// Defaults of the analyze command.
const (
	DefaultWeights    = "AAPL=0.5,MSFT=0.5"
	DefaultFrom       = "2022-01-01"
	DefaultTo         = "2023-01-01"
	DefaultInvestment = 100000
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type analyzeCmd struct {
	weights     stringList
	from, to    string
	investment  float64
	currency    string
	rf          float64
	renormalize bool
	xlsx, pdf   string
	charts      string
	json        bool
}

func (*analyzeCmd) Name() string { return "analyze" }
func (*analyzeCmd) Synopsis() string {
	return "Analyze a portfolio against the S&P 500 and export the report."
}
func (*analyzeCmd) Usage() string {
	return `pfa analyze [-w TICKER=WEIGHT]... [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-investment N] [-xlsx FILE] [-pdf FILE]

Fetches the daily closes of the portfolio stocks and of the benchmark, values
the portfolio, computes the risk and return metrics of both, the moving average
and RSI signals of each stock, and prints the report.

Weights are fractions or percentages summing to 1, e.g. -w AAPL=0.6 -w MSFT=40%.

`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.weights, "w", "TICKER=WEIGHT, repeatable or comma separated. Default "+DefaultWeights)
	f.StringVar(&c.from, "from", DefaultFrom, "First day of the analysis.")
	f.StringVar(&c.to, "to", DefaultTo, "Last day of the analysis.")
	f.Float64Var(&c.investment, "investment", DefaultInvestment, "Initial investment.")
	f.StringVar(&c.currency, "currency", portfolio.DefaultCurrency, "Currency of the investment.")
	f.Float64Var(&c.rf, "rf", portfolio.DefaultRiskFreeRate, "Annual risk free rate.")
	f.BoolVar(&c.renormalize, "renormalize", false, "Rescale the weights when a ticker has no data.")
	f.StringVar(&c.xlsx, "xlsx", "", "Export the report as an Excel workbook, e.g. "+report.XLSXFile)
	f.StringVar(&c.pdf, "pdf", "", "Export the report as a PDF document, e.g. "+report.PDFFile)
	f.StringVar(&c.charts, "charts", "", "Write the charts as PNG files in this directory.")
	f.BoolVar(&c.json, "json", false, "Print the summary as JSON.")
}

// request builds the analysis request from the flags.
func (c *analyzeCmd) request() (portfolio.Request, error) {
	weights := []string(c.weights)
	if len(weights) == 0 {
		weights = []string{DefaultWeights}
	}
	alloc, err := portfolio.ParseAllocation(weights...)
	if err != nil {
		return portfolio.Request{}, err
	}
	from, err := date.Parse(c.from)
	if err != nil {
		return portfolio.Request{}, fmt.Errorf("%w: -from: %v", portfolio.ErrConfiguration, err)
	}
	to, err := date.Parse(c.to)
	if err != nil {
		return portfolio.Request{}, fmt.Errorf("%w: -to: %v", portfolio.ErrConfiguration, err)
	}
	req := portfolio.NewRequest(alloc, from, to, c.investment)
	req.Currency = strings.ToUpper(c.currency)
	req.RiskFreeRate = c.rf
	req.Renormalize = c.renormalize
	return req, req.Validate()
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	req, err := c.request()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	logger := newLogger()
	defer logger.Sync()

	p, err := newProvider(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := portfolio.Run(ctx, p, req, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}

	if c.json {
		b, err := json.Marshal(a.Summary())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		os.Stdout.Write(pretty.Color(pretty.Pretty(b), nil))
	} else {
		printMarkdown(renderer.RenderAnalysis(renderer.NewAnalysis(a)))
	}

	// exports are best effort, the analysis is already printed
	if err := c.export(a, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return subcommands.ExitSuccess
}

// export writes the files requested by flags and reports the first failure.
func (c *analyzeCmd) export(a *portfolio.Analysis, logger *zap.Logger) error {
	if c.xlsx == "" && c.pdf == "" && c.charts == "" {
		return nil
	}
	tables := report.FromAnalysis(a)
	var charts []report.Chart
	if c.pdf != "" || c.charts != "" {
		var err error
		if charts, err = report.Charts(a); err != nil {
			return err
		}
	}

	if c.xlsx != "" {
		b, err := report.XLSX(tables)
		if err != nil {
			return err
		}
		if err := writeFile(c.xlsx, b, logger); err != nil {
			return err
		}
	}
	if c.pdf != "" {
		b, err := report.PDF(tables, charts...)
		if err != nil {
			return err
		}
		if err := writeFile(c.pdf, b, logger); err != nil {
			return err
		}
	}
	if c.charts != "" {
		if err := os.MkdirAll(c.charts, 0o755); err != nil {
			return fmt.Errorf("%w: %v", report.ErrExport, err)
		}
		for _, chart := range charts {
			if err := writeFile(filepath.Join(c.charts, chart.Name+".png"), chart.PNG, logger); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFile(name string, b []byte, logger *zap.Logger) error {
	if err := os.WriteFile(name, b, 0o644); err != nil {
		return fmt.Errorf("%w: %v", report.ErrExport, err)
	}
	logger.Info("report written", zap.String("file", name), zap.Int("bytes", len(b)))
	return nil
}
