package portfolio

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// DefaultTimeout is the time allowed to a single provider request.
const DefaultTimeout = 30 * time.Second

// timeoutProvider bounds every request in time and retries transient failures once.
type timeoutProvider struct {
	Provider
	timeout time.Duration
	backoff time.Duration
	logger  *zap.Logger
}

// WithTimeout returns a Provider where each Daily call is limited to timeout,
// and retried once after a short pause when it failed with a transient error.
func WithTimeout(p Provider, timeout time.Duration, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &timeoutProvider{Provider: p, timeout: timeout, backoff: 500 * time.Millisecond, logger: logger}
}

func (p *timeoutProvider) Daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	h, err := p.daily(ctx, ticker, from, to)
	if err == nil || ctx.Err() != nil || !IsTransient(err) {
		return h, err
	}
	p.logger.Warn("transient fetch failure, retrying once",
		zap.String("provider", p.Name()), zap.String("ticker", ticker), zap.Error(err))

	select {
	case <-ctx.Done():
		return h, ctx.Err()
	case <-time.After(p.backoff):
	}
	return p.daily(ctx, ticker, from, to)
}

func (p *timeoutProvider) daily(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.Provider.Daily(ctx, ticker, from, to)
}

// IsTransient reports whether err is a failure that might not happen again:
// timeouts, reset connections, truncated responses, rate limiting and server errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
