package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	f := newFakeProvider(series(day0, wave(5, 100)...)).with("AAPL", series(day0, 1, 2, 3, 4, 5))
	p := NewCache(f, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.(*cachedProvider).now = func() time.Time { return now }
	ctx := context.Background()

	first, err := p.Daily(ctx, "AAPL", day0, day0.Add(4))
	if err != nil {
		t.Fatalf("Daily() unexpected error: %v", err)
	}
	// mutating a returned series must not alter the cache.
	first.Append(day0.Add(10), 99)

	second, err := p.Daily(ctx, "AAPL", day0, day0.Add(4))
	if err != nil {
		t.Fatalf("Daily() unexpected error: %v", err)
	}
	if second.Len() != 5 {
		t.Errorf("Daily() from cache has %d days want 5", second.Len())
	}
	if f.calls["AAPL"] != 1 {
		t.Errorf("Daily() reached the provider %d times want 1", f.calls["AAPL"])
	}

	// another range is another entry.
	if _, err := p.Daily(ctx, "AAPL", day0, day0.Add(2)); err != nil {
		t.Fatalf("Daily() unexpected error: %v", err)
	}
	if f.calls["AAPL"] != 2 {
		t.Errorf("Daily() on another range reached the provider %d times want 2", f.calls["AAPL"])
	}

	now = now.Add(time.Minute)
	if _, err := p.Daily(ctx, "AAPL", day0, day0.Add(4)); err != nil {
		t.Fatalf("Daily() unexpected error: %v", err)
	}
	if f.calls["AAPL"] != 3 {
		t.Errorf("Daily() after expiry reached the provider %d times want 3", f.calls["AAPL"])
	}
}

func TestCacheSkipsErrors(t *testing.T) {
	f := newFakeProvider(series(day0, 1, 2))
	f.errs["AAPL"] = ErrDataUnavailable
	p := NewCache(f, 0)
	for range 2 {
		if _, err := p.Daily(context.Background(), "AAPL", day0, day0.Add(1)); !errors.Is(err, ErrDataUnavailable) {
			t.Fatalf("Daily() error = %v want %v", err, ErrDataUnavailable)
		}
	}
	if f.calls["AAPL"] != 2 {
		t.Errorf("Daily() reached the provider %d times want 2", f.calls["AAPL"])
	}
	if p.Name() != "fake" || p.Benchmark() != "BENCH" {
		t.Errorf("NewCache() = %s/%s want fake/BENCH", p.Name(), p.Benchmark())
	}
}
