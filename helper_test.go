package portfolio

import (
	"context"
	"math"
	"sync"

	"github.com/tickerlab/portfolio/date"
)

// day0 is the first day of test series.
var day0 = date.New(2023, 1, 2)

// series returns a history with one value per consecutive day starting at from.
func series(from date.Date, values ...float64) date.History[float64] {
	var h date.History[float64]
	for i, v := range values {
		h.Append(from.Add(i), v)
	}
	return h
}

// ramp returns n values starting at start and growing by step.
func ramp(n int, start, step float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = start + float64(i)*step
	}
	return v
}

// wave returns n values oscillating around base, never flat.
func wave(n int, base float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = base * (1 + 0.1*math.Sin(float64(i)/3) + 0.001*float64(i))
	}
	return v
}

// fakeProvider serves fixed series and counts calls.
type fakeProvider struct {
	bench  string
	series map[string]date.History[float64]
	errs   map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func newFakeProvider(bench date.History[float64]) *fakeProvider {
	return &fakeProvider{
		bench:  "BENCH",
		series: map[string]date.History[float64]{"BENCH": bench},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeProvider) with(ticker string, h date.History[float64]) *fakeProvider {
	f.series[ticker] = h
	return f
}

func (f *fakeProvider) Name() string      { return "fake" }
func (f *fakeProvider) Benchmark() string { return f.bench }

func (f *fakeProvider) Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	f.mu.Lock()
	f.calls[ticker]++
	f.mu.Unlock()
	if err := f.errs[ticker]; err != nil {
		return date.History[float64]{}, err
	}
	h, ok := f.series[ticker]
	if !ok {
		return date.History[float64]{}, nil
	}
	var r date.History[float64]
	for on, v := range h.Values() {
		if !on.Before(from) && !on.After(to) {
			r.Append(on, v)
		}
	}
	return r, nil
}

func (f *fakeProvider) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// near reports whether a and b are equal within a relative tolerance of 1e-9.
func near(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
