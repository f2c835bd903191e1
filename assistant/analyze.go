package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// AnalyzeTool lets the model run a portfolio analysis.
type AnalyzeTool struct {
	Provider portfolio.Provider
	Logger   *zap.Logger
}

func (*AnalyzeTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: "analyze_portfolio",
		Description: `Analyze a stock portfolio against the S&P 500 over a period.
		Returns the annual return, volatility, Sharpe ratio, beta and Treynor ratio of the portfolio and of the benchmark,
		and the latest moving average and RSI buy/sell signals of each stock.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"weights": {
					Type:        genai.TypeString,
					Description: `Comma separated TICKER=WEIGHT pairs, weights are fractions or percentages summing to 1, e.g. "AAPL=0.5,MSFT=50%".`,
				},
				"from": {
					Type:        genai.TypeString,
					Description: "First day of the period, YYYY-MM-DD.",
				},
				"to": {
					Type:        genai.TypeString,
					Description: "Last day of the period, YYYY-MM-DD.",
				},
				"investment": {
					Type:        genai.TypeNumber,
					Description: "Initial investment, defaults to 100000.",
				},
			},
			Required: []string{"weights", "from", "to"},
		},
	}
}

func (t *AnalyzeTool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	name := t.Declaration().Name
	req, err := analyzeRequest(args)
	if err != nil {
		return errorResponse(id, name, err)
	}
	a, err := portfolio.Run(ctx, t.Provider, req, t.Logger)
	if err != nil {
		return errorResponse(id, name, err)
	}
	output, err := toMap(a.Summary())
	if err != nil {
		return errorResponse(id, name, err)
	}
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}

func analyzeRequest(args map[string]any) (portfolio.Request, error) {
	str := func(key string) (string, error) {
		v, ok := args[key].(string)
		if !ok {
			return "", fmt.Errorf("invalid %s got %T, expected string", key, args[key])
		}
		return v, nil
	}
	weights, err := str("weights")
	if err != nil {
		return portfolio.Request{}, err
	}
	alloc, err := portfolio.ParseAllocation(weights)
	if err != nil {
		return portfolio.Request{}, err
	}
	var days [2]date.Date
	for i, key := range []string{"from", "to"} {
		s, err := str(key)
		if err != nil {
			return portfolio.Request{}, err
		}
		if days[i], err = date.Parse(s); err != nil {
			return portfolio.Request{}, err
		}
	}
	investment := 100000.0
	if v, ok := args["investment"]; ok {
		f, ok := v.(float64)
		if !ok {
			return portfolio.Request{}, fmt.Errorf("invalid investment got %T, expected number", v)
		}
		investment = f
	}
	return portfolio.NewRequest(alloc, days[0], days[1], investment), nil
}

// toMap converts v to its JSON object form.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
