package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/tickerlab/portfolio/date"
)

// DefaultCacheTTL is how long fetched series are reused by NewCache.
const DefaultCacheTTL = 5 * time.Minute

type cacheKey struct {
	ticker   string
	from, to date.Date
}

type cacheEntry struct {
	fetched time.Time
	prices  date.History[float64]
}

// cachedProvider keeps the series fetched in memory for a limited time.
type cachedProvider struct {
	Provider
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

// NewCache returns a Provider that serves again series fetched less than ttl ago.
//
// Only successful fetches are kept. It is meant for long lived sessions that
// analyse the same tickers and range several times.
func NewCache(p Provider, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedProvider{Provider: p, ttl: ttl, now: time.Now, entries: make(map[cacheKey]cacheEntry)}
}

func (c *cachedProvider) Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	key := cacheKey{ticker, from, to}
	if h, ok := c.get(key); ok {
		return h, nil
	}
	h, err := c.Provider.Daily(ctx, ticker, from, to)
	if err != nil {
		return h, err
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{fetched: c.now(), prices: h.Clone()}
	c.mu.Unlock()
	return h, nil
}

func (c *cachedProvider) get(key cacheKey) (date.History[float64], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return date.History[float64]{}, false
	}
	if c.now().Sub(e.fetched) >= c.ttl {
		delete(c.entries, key)
		return date.History[float64]{}, false
	}
	return e.prices.Clone(), true
}
