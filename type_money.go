package portfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of amounts when none is given.
const DefaultCurrency = "USD"

// Money represents a monetary value, used to display investments and portfolio values.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns the money amount value in currency.
func M(value float64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{value: decimal.NewFromFloat(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, rounded to the currency fraction.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string  { return m.cur }
func (m Money) Float() float64    { return m.value.InexactFloat64() }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: m.cur} }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
