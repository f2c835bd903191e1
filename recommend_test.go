package portfolio

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestRecommend(t *testing.T) {
	p := newFakeProvider(series(day0, ramp(250, 100, 1)...)).
		with("UP", series(day0, ramp(250, 100, 1)...)).
		with("DOWN", series(day0.Add(3), ramp(250, 500, -1)...))

	recs, dropped, err := Recommend(context.Background(), p, []string{"up", "DOWN", "GONE", "UP"}, day0, day0.Add(400), nil)
	if err != nil {
		t.Fatalf("Recommend() unexpected error: %v", err)
	}
	if !slices.Equal(dropped, []string{"GONE"}) {
		t.Errorf("Recommend() dropped = %v want [GONE]", dropped)
	}
	if len(recs) != 2 {
		t.Fatalf("Recommend() = %d recommendations want 2", len(recs))
	}
	if recs[0].Ticker != "DOWN" || recs[0].Trend != Sell || recs[0].RSISignal != Buy {
		t.Errorf("Recommend()[0] = %s %v/%v want DOWN Sell/Buy", recs[0].Ticker, recs[0].Trend, recs[0].RSISignal)
	}
	if recs[1].Ticker != "UP" || recs[1].Trend != Buy || recs[1].RSISignal != Sell {
		t.Errorf("Recommend()[1] = %s %v/%v want UP Buy/Sell", recs[1].Ticker, recs[1].Trend, recs[1].RSISignal)
	}
	if got, want := recs[0].Date.String(), day0.Add(252).String(); got != want {
		t.Errorf("Recommend()[0].Date = %s want %s", got, want)
	}
}

func TestRecommendErrors(t *testing.T) {
	p := newFakeProvider(series(day0, ramp(10, 100, 1)...))
	if _, _, err := Recommend(context.Background(), p, nil, day0, day0.Add(10), nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Recommend(no ticker) = %v want ErrConfiguration", err)
	}
	if _, _, err := Recommend(context.Background(), p, []string{"X"}, day0.Add(10), day0, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Recommend(inverted range) = %v want ErrConfiguration", err)
	}
	if _, dropped, err := Recommend(context.Background(), p, []string{"X"}, day0, day0.Add(10), nil); !errors.Is(err, ErrDataUnavailable) || len(dropped) != 1 {
		t.Errorf("Recommend(unknown) = %v, %v want ErrDataUnavailable, [X]", dropped, err)
	}
}
