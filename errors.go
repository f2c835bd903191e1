package portfolio

import "errors"

// Errors reported by the analysis. They are always wrapped with the specific
// cause, use errors.Is to test for them.
var (
	// ErrDataUnavailable is returned when there is no price data for the requested tickers or range.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientData is returned for degenerate series (empty, or starting at zero).
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInsufficientOverlap is returned when portfolio and benchmark returns have no common date.
	ErrInsufficientOverlap = errors.New("insufficient overlap")
	// ErrDivisionByZero is returned when a ratio denominator (variance, volatility, beta) is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrConfiguration is returned for invalid requests, it is always reported before any fetch.
	ErrConfiguration = errors.New("configuration error")
)
