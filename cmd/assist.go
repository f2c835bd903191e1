package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/assistant"
	"go.uber.org/zap"
)

type assistCmd struct {
	backend   string
	owner     string
	knowledge string
	apiKey    string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "Chat with the portfolio assistant." }
func (*assistCmd) Usage() string {
	return `pfa assist [-backend openai|gemini] [-owner NAME] [-knowledge FILE] [PROMPT]...

Starts an interactive chat. Prompts given as arguments are sent first.
Type 'bye' or Ctrl+D to exit.

The openai backend answers about the owner from the knowledge file.
The gemini backend can also run portfolio analyses on request, using the
market data provider selected by -provider.

`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.backend, "backend", "openai", "Language model backend: openai or gemini.")
	f.StringVar(&c.owner, "owner", "the portfolio owner", "Name of the person the assistant talks about.")
	f.StringVar(&c.knowledge, "knowledge", "", "Text file with the facts the assistant answers from.")
	f.StringVar(&c.apiKey, "api-key", "", "API key of the backend. Defaults to $OPENAI_API_KEY or $GEMINI_API_KEY.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var knowledge string
	if c.knowledge != "" {
		b, err := os.ReadFile(c.knowledge)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot read knowledge: %v\n", err)
			return subcommands.ExitUsageError
		}
		knowledge = string(b)
	}
	logger := newLogger()
	defer logger.Sync()

	completer, err := c.completer(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStatus(err)
	}
	s := assistant.NewSession(assistant.Preamble(c.owner, knowledge))
	logger.Debug("session started", zap.Stringer("id", s.ID), zap.String("backend", c.backend))
	if err := assistant.Run(ctx, os.Stdout, os.Stdin, s, completer, f.Args()...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *assistCmd) completer(ctx context.Context, logger *zap.Logger) (assistant.Completer, error) {
	switch c.backend {
	case "openai":
		key := flagOrEnv(c.apiKey, EnvOpenAIKey)
		if key == "" {
			return nil, fmt.Errorf("%w: missing %s", portfolio.ErrConfiguration, EnvOpenAIKey)
		}
		return assistant.NewOpenAI(key), nil
	case "gemini":
		p, err := newProvider(logger)
		if err != nil {
			return nil, err
		}
		tool := &assistant.AnalyzeTool{Provider: portfolio.NewCache(p, portfolio.DefaultCacheTTL), Logger: logger}
		return assistant.NewGemini(ctx, c.apiKey, logger, tool)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", portfolio.ErrConfiguration, c.backend)
	}
}
