package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tickerlab/portfolio"
	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// chart returns a payload with one close per day from 2024-01-02 at 9:30 New York time.
func chart(closes ...string) string {
	ts := ""
	cl := ""
	open := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	for i, c := range closes {
		if i > 0 {
			ts += ","
			cl += ","
		}
		ts += fmt.Sprint(open.AddDate(0, 0, i).Unix())
		cl += c
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AAPL","gmtoffset":-18000},
		"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cl)
}

func TestParseChart(t *testing.T) {
	from := date.New(2024, 1, 2)
	prices, err := parseChart([]byte(chart("185.5", "null", "184", "181.25")), date.Range{From: from, To: from.Add(2)})
	if err != nil {
		t.Fatalf("parseChart() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]date.Date{from, from.Add(2)}, prices.Days()); diff != "" {
		t.Errorf("parseChart() days mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{185.5, 184}, prices.Slice()); diff != "" {
		t.Errorf("parseChart() closes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseChartEmpty(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"symbol":"AAPL"},"indicators":{"quote":[{}]}}],"error":null}}`
	prices, err := parseChart([]byte(body), date.Range{From: date.New(2024, 1, 1), To: date.New(2024, 1, 2)})
	if err != nil {
		t.Fatalf("parseChart() unexpected error: %v", err)
	}
	if prices.Len() != 0 {
		t.Errorf("parseChart() = %d days want 0", prices.Len())
	}

	body = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	if _, err := parseChart([]byte(body), date.Range{}); !errors.Is(err, portfolio.ErrDataUnavailable) {
		t.Errorf("parseChart() error = %v want %v", err, portfolio.ErrDataUnavailable)
	}
}

func TestDailyFailover(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Edge: Too Many Requests", http.StatusTooManyRequests)
	}))
	defer down.Close()
	var got *http.Request
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		fmt.Fprint(w, chart("100", "101"))
	}))
	defer up.Close()

	c := &Client{hosts: []string{down.URL, up.URL}, http: new(http.Client), logger: zap.NewNop()}
	from := date.New(2024, 1, 2)
	prices, err := c.Daily(context.Background(), "AAPL", from, from.Add(1))
	if err != nil {
		t.Fatalf("Daily() unexpected error: %v", err)
	}
	if prices.Len() != 2 {
		t.Errorf("Daily() = %d days want 2", prices.Len())
	}
	if got.URL.Path != "/v8/finance/chart/AAPL" {
		t.Errorf("Daily() path = %q want /v8/finance/chart/AAPL", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("interval") != "1d" || q.Get("period1") != fmt.Sprint(from.Time().Unix()) || q.Get("period2") != fmt.Sprint(from.Add(2).Time().Unix()) {
		t.Errorf("Daily() query = %v", q)
	}
	if got.Header.Get("User-Agent") == "" || got.Header.Get("Referer") != "https://finance.yahoo.com/quote/AAPL/chart" {
		t.Errorf("Daily() headers = %v", got.Header)
	}
}

func TestDailyErrors(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"chart":{"result":null,"error":{"code":"Not Found"}}}`, http.StatusNotFound)
	}))
	defer notFound.Close()
	html := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>consent</html>")
	}))
	defer html.Close()
	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer unavailable.Close()

	from := date.New(2024, 1, 2)
	daily := func(hosts ...string) error {
		c := &Client{hosts: hosts, http: new(http.Client), logger: zap.NewNop()}
		_, err := c.Daily(context.Background(), "NOPE", from, from.Add(5))
		return err
	}
	if err := daily(notFound.URL, html.URL); !errors.Is(err, portfolio.ErrDataUnavailable) {
		t.Errorf("Daily() on 404 error = %v want %v", err, portfolio.ErrDataUnavailable)
	}
	if err := daily(html.URL); err == nil || portfolio.IsTransient(err) {
		t.Errorf("Daily() on html error = %v want a permanent error", err)
	}
	if err := daily(html.URL, unavailable.URL); !portfolio.IsTransient(err) {
		t.Errorf("Daily() on 502 error = %v want a transient error", err)
	}
}
