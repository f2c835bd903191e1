// Package eodhd fetches end of day prices from the EOD Historical Data API (https://eodhd.com).
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// Benchmark is the EODHD ticker of the S&P 500 index.
const Benchmark = "GSPC.INDX"

// DemoKey is the public key of EODHD, it only serves a few tickers like MCD.US or AAPL.US.
const DemoKey = "demo"

const defaultBaseURL = "https://eodhd.com/api"

// Client is a portfolio.Provider backed by EODHD.
//
// Tickers are in EODHD format "SYMBOL.EXCHANGE", symbols without an exchange
// are assumed to be US listed.
type Client struct {
	apiKey string
	base   string
	http   *http.Client
	logger *zap.Logger
}

// NewClient returns a client using apiKey. Responses are cached on disk for the day.
func NewClient(apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey: apiKey,
		base:   defaultBaseURL,
		http:   newDailyCachingClient(logger),
		logger: logger,
	}
}

func (c *Client) Name() string      { return "eodhd" }
func (c *Client) Benchmark() string { return Benchmark }

// Daily returns the daily closes of ticker between from and to.
func (c *Client) Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	var prices date.History[float64]
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		c.base, url.PathEscape(Symbol(ticker)), url.QueryEscape(c.apiKey), from, to)

	type Info struct {
		Date  date.Date           `json:"date"`
		Close decimal.NullDecimal `json:"close"`
	}
	content := make([]Info, 0)
	if err := portfolio.GetJSON(ctx, c.http, addr, &content); err != nil {
		var httpErr *portfolio.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return prices, fmt.Errorf("eodhd has no ticker %s: %w", ticker, portfolio.ErrDataUnavailable)
		}
		return prices, err
	}

	for _, info := range content {
		if !info.Close.Valid {
			continue
		}
		prices.Append(info.Date, info.Close.Decimal.InexactFloat64())
	}
	c.logger.Debug("eodhd daily", zap.String("ticker", ticker), zap.Int("days", prices.Len()))
	return prices, nil
}

// Symbol returns the EODHD form of ticker, adding the US exchange when there is none.
func Symbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".US"
}
