package portfolio

import (
	"encoding/json"

	"github.com/tickerlab/portfolio/date"
)

// Indicator windows.
const (
	ShortWindow = 50
	LongWindow  = 200
	RSIPeriod   = 14
)

// RSI thresholds.
const (
	Oversold   = 30
	Overbought = 70
)

// Signal is a categorical recommendation.
type Signal string

const (
	NoSignal Signal = "" // the indicator is not defined yet
	Buy      Signal = "Buy"
	Sell     Signal = "Sell"
	Hold     Signal = "Hold"
)

func (s Signal) String() string {
	if s == NoSignal {
		return "-"
	}
	return string(s)
}

// Value is an indicator value that might not be defined.
type Value struct {
	Float float64
	Valid bool
}

// Defined returns a valid Value.
func Defined(v float64) Value { return Value{Float: v, Valid: true} }

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// MovingAverage returns the simple moving average of values over a trailing window.
//
// The first window-1 points are undefined.
func MovingAverage(values []float64, window int) []Value {
	ma := make([]Value, len(values))
	if window <= 0 {
		return ma
	}
	for i := window - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		ma[i] = Defined(sum / float64(window))
	}
	return ma
}

// RSI returns the relative strength index of values over period.
//
// Price differences are split into gains and losses; the first point has no
// previous price and counts as a zero difference. Average gain and loss are
// the simple means over the trailing period, so the first period-1 points are
// undefined. RSI is 100 when the average loss is zero.
func RSI(values []float64, period int) []Value {
	rsi := make([]Value, len(values))
	if period <= 0 || len(values) < period {
		return rsi
	}
	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		switch d := values[i] - values[i-1]; {
		case d > 0:
			gains[i] = d
		case d < 0:
			losses[i] = -d
		}
	}
	for i := period - 1; i < len(values); i++ {
		avgGain := mean(gains[i-period+1 : i+1])
		avgLoss := mean(losses[i-period+1 : i+1])
		if avgLoss == 0 {
			rsi[i] = Defined(100)
			continue
		}
		rsi[i] = Defined(100 - 100/(1+avgGain/avgLoss))
	}
	return rsi
}

// TrendSignal is Buy when the short moving average is above the long one, Sell otherwise.
func TrendSignal(short, long Value) Signal {
	if !short.Valid || !long.Valid {
		return NoSignal
	}
	if short.Float > long.Float {
		return Buy
	}
	return Sell
}

// RSISignal is Buy when oversold, Sell when overbought and Hold in between.
func RSISignal(rsi Value) Signal {
	switch {
	case !rsi.Valid:
		return NoSignal
	case rsi.Float < Oversold:
		return Buy
	case rsi.Float > Overbought:
		return Sell
	default:
		return Hold
	}
}

// SignalPoint holds the indicators and signals of a ticker on a given day.
type SignalPoint struct {
	Date      date.Date `json:"date"`
	Close     float64   `json:"close"`
	MA50      Value     `json:"ma50"`
	MA200     Value     `json:"ma200"`
	RSI       Value     `json:"rsi"`
	Trend     Signal    `json:"signal"`
	RSISignal Signal    `json:"rsi_signal"`
}

// SignalSeries is the chronological series of signals of a ticker.
type SignalSeries []SignalPoint

// Signals computes the moving averages, RSI and derived signals of a price series.
func Signals(prices date.History[float64]) SignalSeries {
	closes := prices.Slice()
	ma50 := MovingAverage(closes, ShortWindow)
	ma200 := MovingAverage(closes, LongWindow)
	rsi := RSI(closes, RSIPeriod)

	s := make(SignalSeries, len(closes))
	for i := range closes {
		on, _ := prices.At(i)
		s[i] = SignalPoint{
			Date:      on,
			Close:     closes[i],
			MA50:      ma50[i],
			MA200:     ma200[i],
			RSI:       rsi[i],
			Trend:     TrendSignal(ma50[i], ma200[i]),
			RSISignal: RSISignal(rsi[i]),
		}
	}
	return s
}

// Latest returns the most recent point, the actionable recommendation.
func (s SignalSeries) Latest() (SignalPoint, bool) {
	if len(s) == 0 {
		return SignalPoint{}, false
	}
	return s[len(s)-1], true
}

// Column extracts one indicator of the series, used for charts.
func (s SignalSeries) Column(f func(SignalPoint) Value) []Value {
	col := make([]Value, len(s))
	for i, p := range s {
		col[i] = f(p)
	}
	return col
}
