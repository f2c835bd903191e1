package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"github.com/tickerlab/portfolio/renderer"
	"github.com/tidwall/pretty"
)

type signalsCmd struct {
	from, to string
	json     bool
}

func (*signalsCmd) Name() string     { return "signals" }
func (*signalsCmd) Synopsis() string { return "Print the latest buy/sell signals of stocks." }
func (*signalsCmd) Usage() string {
	return `pfa signals [-from YYYY-MM-DD] [-to YYYY-MM-DD] TICKER...

Prints the latest 50/200 days moving average crossover and 14 days RSI signals
of each ticker. The period defaults to the last year, the 200 days average
needs at least 200 trading days.

`
}

func (c *signalsCmd) SetFlags(f *flag.FlagSet) {
	from, to := defaultRange()
	f.StringVar(&c.from, "from", from, "First day of the price history.")
	f.StringVar(&c.to, "to", to, "Last day of the price history.")
	f.BoolVar(&c.json, "json", false, "Print the signals as JSON.")
}

func (c *signalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker is required")
		return subcommands.ExitUsageError
	}
	from, err := date.Parse(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	logger := newLogger()
	defer logger.Sync()

	p, err := newProvider(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	recs, dropped, err := portfolio.Recommend(ctx, p, f.Args(), from, to, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}

	if c.json {
		b, err := json.Marshal(recs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		os.Stdout.Write(pretty.Color(pretty.Pretty(b), nil))
		return subcommands.ExitSuccess
	}
	view := &renderer.Analysis{Signals: renderer.NewSignalLines(recs)}
	if len(dropped) > 0 {
		view.Warnings = []string{"no price data for " + strings.Join(dropped, ", ")}
	}
	printMarkdown(renderer.RenderSignals(view))
	return subcommands.ExitSuccess
}
