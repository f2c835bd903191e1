// Package cmd implements the pfa command line application: portfolio
// analysis, trading signals, the chat assistant and the housing price
// estimator.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/alpaca"
	"github.com/tickerlab/portfolio/eodhd"
	"github.com/tickerlab/portfolio/yahoo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// Commands returns the subcommands by group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"analysis":  {&analyzeCmd{}, &signalsCmd{}},
		"assistant": {&assistCmd{}},
		"housing":   {&housingCmd{}},
		"":          {&topicCmd{}},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	Verbose      = flag.Bool("v", false, "Log debug messages.")
	raw          = flag.Bool("raw", false, "Print markdown as is, without terminal styling.")
	providerName = flag.String("provider", "yahoo", "Market data provider: yahoo, eodhd or alpaca. Defaults to $PFA_PROVIDER if set.")
	timeout      = flag.Duration("timeout", portfolio.DefaultTimeout, "Time allowed to each market data request.")
	eodhdKey     = flag.String("eodhd-api-key", "", "EODHD API key. Defaults to $EODHD_API_KEY.")
	alpacaKey    = flag.String("alpaca-api-key", "", "Alpaca API key. Defaults to $ALPACA_API_KEY.")
	alpacaSecret = flag.String("alpaca-secret-key", "", "Alpaca secret key. Defaults to $ALPACA_SECRET_KEY.")
)

// Environment variables.
const (
	EnvProvider     = "PFA_PROVIDER"
	EnvVerbose      = "PFA_VERBOSE"
	EnvEODHDKey     = "EODHD_API_KEY"
	EnvAlpacaKey    = "ALPACA_API_KEY"
	EnvAlpacaSecret = "ALPACA_SECRET_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
)

// LoadEnv loads the .env file of the working directory, if any, into the environment.
// Variables already set are kept.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// flagOrEnv returns the flag value when set, the environment variable otherwise.
func flagOrEnv(value, env string) string {
	if value != "" {
		return value
	}
	return os.Getenv(env)
}

// newLogger returns the logger of the application, it writes to stderr.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if *Verbose || os.Getenv(EnvVerbose) == "true" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

// newProvider returns the market data provider selected by flags, bounded in time.
func newProvider(logger *zap.Logger) (portfolio.Provider, error) {
	name := *providerName
	if !isFlagSet("provider") {
		if env := os.Getenv(EnvProvider); env != "" {
			name = env
		}
	}
	var p portfolio.Provider
	switch strings.ToLower(name) {
	case "yahoo":
		p = yahoo.NewClient(logger)
	case "eodhd":
		key := flagOrEnv(*eodhdKey, EnvEODHDKey)
		if key == "" {
			logger.Warn("no EODHD API key, using the demo key", zap.String("env", EnvEODHDKey))
			key = eodhd.DemoKey
		}
		p = eodhd.NewClient(key, logger)
	case "alpaca":
		key, secret := flagOrEnv(*alpacaKey, EnvAlpacaKey), flagOrEnv(*alpacaSecret, EnvAlpacaSecret)
		if key == "" || secret == "" {
			return nil, fmt.Errorf("%w: alpaca needs %s and %s", portfolio.ErrConfiguration, EnvAlpacaKey, EnvAlpacaSecret)
		}
		p = alpaca.NewClient(key, secret, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", portfolio.ErrConfiguration, name)
	}
	return portfolio.WithTimeout(p, *timeout, logger), nil
}

func isFlagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// printMarkdown prints md styled for the terminal, or as is with -raw.
func printMarkdown(md string) {
	if *raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// exitStatus maps an analysis error to the command exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if errors.Is(err, portfolio.ErrConfiguration) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// defaultRange is the last year up to today.
func defaultRange() (from, to string) {
	today := time.Now()
	return today.AddDate(-1, 0, 0).Format("2006-01-02"), today.Format("2006-01-02")
}
