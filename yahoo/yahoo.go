// Package yahoo fetches daily closes from the Yahoo Finance chart API.
//
// The API is not documented and rate limited, requests look like a browser's
// and fail over between the two public hosts.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// Benchmark is the Yahoo symbol of the S&P 500 index.
const Benchmark = "^GSPC"

var defaultHosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}

// Client is a portfolio.Provider backed by Yahoo Finance.
type Client struct {
	hosts  []string
	http   *http.Client
	logger *zap.Logger
}

// NewClient returns a Yahoo Finance client.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{hosts: defaultHosts, http: new(http.Client), logger: logger}
}

func (c *Client) Name() string      { return "yahoo" }
func (c *Client) Benchmark() string { return Benchmark }

func header(symbol string) http.Header {
	h := make(http.Header)
	h.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	h.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", strings.ToUpper(symbol)))
	return h
}

// Daily returns the daily closes of ticker between from and to.
func (c *Client) Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	var lastErr error
	for _, host := range c.hosts {
		// period2 is exclusive
		addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d&events=div,splits",
			host, url.PathEscape(ticker), from.Time().Unix(), to.Add(1).Time().Unix())
		body, err := portfolio.Get(ctx, c.http, addr, header(ticker))
		if err != nil {
			var httpErr *portfolio.HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
				return date.History[float64]{}, fmt.Errorf("yahoo has no symbol %s: %w", ticker, portfolio.ErrDataUnavailable)
			}
			if ctx.Err() != nil {
				return date.History[float64]{}, err
			}
			c.logger.Debug("yahoo host failed", zap.String("host", host), zap.Error(err))
			lastErr = err
			continue
		}
		if s := string(body); strings.HasPrefix(s, "<") || strings.HasPrefix(s, "Edge:") {
			if len(s) > 120 {
				s = s[:120]
			}
			lastErr = fmt.Errorf("yahoo returned non-json body: %s", s)
			continue
		}
		prices, err := parseChart(body, date.Range{From: from, To: to})
		if err != nil {
			return prices, fmt.Errorf("yahoo %s: %w", ticker, err)
		}
		c.logger.Debug("yahoo daily", zap.String("ticker", ticker), zap.Int("days", prices.Len()))
		return prices, nil
	}
	return date.History[float64]{}, lastErr
}

// parseChart reads the closes in a chart payload.
//
//	{"chart": {"result": [{
//	   "meta": {"currency": "USD", "symbol": "AAPL", "gmtoffset": -14400, ...},
//	   "timestamp": [1704205800, ...],
//	   "indicators": {"quote": [{"close": [185.64, null, ...], ...}]}
//	}], "error": null}}
//
// Days outside r and days without a close are skipped.
func parseChart(body []byte, r date.Range) (date.History[float64], error) {
	var prices date.History[float64]
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return prices, fmt.Errorf("failed to parse chart json: %w", err)
	}
	if jerr, err := jsonpath.Get("$.chart.error.description", jobj); err == nil && jerr != nil {
		return prices, fmt.Errorf("%v: %w", jerr, portfolio.ErrDataUnavailable)
	}
	jts, err := jsonpath.Get("$.chart.result[0].timestamp", jobj)
	if err != nil {
		// no trading day in the range
		return prices, nil
	}
	jcl, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return prices, fmt.Errorf("no close in chart: %w", err)
	}
	ts, ok1 := jts.([]any)
	cl, ok2 := jcl.([]any)
	if !ok1 || !ok2 || len(ts) != len(cl) {
		return prices, fmt.Errorf("invalid chart: %d timestamps for %d closes", len(ts), len(cl))
	}

	loc := time.UTC
	if off, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		if off, ok := off.(float64); ok {
			loc = time.FixedZone("", int(off))
		}
	}
	for i := range ts {
		sec, ok := ts[i].(float64)
		if !ok {
			continue
		}
		v, ok := cl[i].(float64) // null closes are missing days
		if !ok {
			continue
		}
		on := date.FromUnix(int64(sec), loc)
		if r.Contains(on) {
			prices.Append(on, v)
		}
	}
	return prices, nil
}
