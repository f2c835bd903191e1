package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// Recommend fetches each ticker on its own trading days and returns its
// latest signals, sorted by ticker. Tickers without data are returned in
// dropped. It fails only when no ticker has data.
func Recommend(ctx context.Context, p Provider, tickers []string, from, to date.Date, logger *zap.Logger) (recs []Recommendation, dropped []string, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(tickers) == 0 {
		return nil, nil, fmt.Errorf("%w: no ticker", ErrConfiguration)
	}
	if _, err := date.NewRange(from, to); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	tickers = slices.Clone(tickers)
	for i, t := range tickers {
		tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	slices.Sort(tickers)
	tickers = slices.Compact(tickers)

	for _, t := range tickers {
		h, err := p.Daily(ctx, t, from, to)
		if errors.Is(err, ErrDataUnavailable) || (err == nil && h.Len() == 0) {
			logger.Warn("no price data", zap.String("provider", p.Name()), zap.String("ticker", t))
			dropped = append(dropped, t)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cannot fetch %s from %s: %w", t, p.Name(), err)
		}
		last, _ := Signals(h).Latest()
		recs = append(recs, Recommendation{Ticker: t, SignalPoint: last})
	}
	if len(recs) == 0 {
		return nil, dropped, fmt.Errorf("%w: no price data for %s", ErrDataUnavailable, strings.Join(dropped, ", "))
	}
	return recs, dropped, nil
}
