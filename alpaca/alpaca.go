// Package alpaca fetches daily bars from the Alpaca market data API (https://alpaca.markets).
package alpaca

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// Benchmark is the S&P 500 ETF. Alpaca has no index quotes, the ETF tracks the index closely enough.
const Benchmark = "SPY"

// barGetter is the part of marketdata.Client used by Client.
type barGetter interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// Client is a portfolio.Provider backed by Alpaca.
type Client struct {
	md     barGetter
	feed   marketdata.Feed
	logger *zap.Logger
}

// NewClient returns a client authenticated with the given key pair.
//
// The free IEX feed is used, it is available to every account.
func NewClient(apiKey, apiSecret string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	md := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
	return &Client{md: md, feed: marketdata.IEX, logger: logger}
}

func (c *Client) Name() string      { return "alpaca" }
func (c *Client) Benchmark() string { return Benchmark }

// Daily returns the split adjusted daily closes of ticker between from and to.
//
// The marketdata client does not take a context, cancellation is only checked
// before the request.
func (c *Client) Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	if err := ctx.Err(); err != nil {
		return date.History[float64]{}, err
	}
	bars, err := c.md.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      from.Time(),
		End:        to.Add(1).Time().Add(-time.Second),
		Feed:       c.feed,
	})
	if err != nil {
		return date.History[float64]{}, fmt.Errorf("alpaca bars for %s: %w", ticker, err)
	}
	prices := history(bars, date.Range{From: from, To: to})
	c.logger.Debug("alpaca daily", zap.String("ticker", ticker), zap.Int("days", prices.Len()))
	if prices.Len() == 0 {
		return prices, fmt.Errorf("alpaca has no bar for %s: %w", ticker, portfolio.ErrDataUnavailable)
	}
	return prices, nil
}

// history converts bars into daily closes.
//
// Daily bars are stamped at midnight New York time, which is still the same
// day in UTC.
func history(bars []marketdata.Bar, r date.Range) date.History[float64] {
	var prices date.History[float64]
	for _, b := range bars {
		on := date.FromTime(b.Timestamp.UTC())
		if b.Close <= 0 || !r.Contains(on) {
			continue
		}
		prices.Append(on, b.Close)
	}
	return prices
}
