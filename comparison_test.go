package portfolio

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	value := series(day0, 200, 210, 220, 180)
	bench := series(day0.Add(1), 50, 55, 60)

	rows, err := Compare(value, bench)
	if err != nil {
		t.Fatalf("Compare() unexpected error: %v", err)
	}
	want := []struct {
		day                  int
		portfolio, benchmark float64
	}{
		{1, 100, 100},
		{2, 100 * 220.0 / 210, 110},
		{3, 100 * 180.0 / 210, 120},
	}
	if len(rows) != len(want) {
		t.Fatalf("Compare() = %d rows want %d", len(rows), len(want))
	}
	for i, w := range want {
		r := rows[i]
		if r.Date.String() != day0.Add(w.day).String() || !near(r.Portfolio, w.portfolio) || !near(r.Benchmark, w.benchmark) {
			t.Errorf("Compare()[%d] = %s %v %v want %s %v %v", i, r.Date, r.Portfolio, r.Benchmark, day0.Add(w.day), w.portfolio, w.benchmark)
		}
	}

	if _, err := Compare(value, series(day0.Add(10), 1, 2)); !errors.Is(err, ErrInsufficientOverlap) {
		t.Errorf("Compare(disjoint) = %v want ErrInsufficientOverlap", err)
	}
}

func TestBetter(t *testing.T) {
	tests := []struct {
		portfolio, benchmark float64
		want                 bool
	}{
		{0.12, 0.10, true},
		{0.10, 0.10, false},
		{-0.5, 0.2, false},
	}
	for _, tt := range tests {
		if got := Better(tt.portfolio, tt.benchmark); got != tt.want {
			t.Errorf("Better(%v, %v) = %v want %v", tt.portfolio, tt.benchmark, got, tt.want)
		}
	}
}
