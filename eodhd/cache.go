package eodhd

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/tickerlab/portfolio/date"
	"go.uber.org/zap"
)

// diskCache implements a simple disk cache for HTTP responses.
//
// Keys are unique per day, so cached responses expire every day.
type diskCache struct {
	base   http.RoundTripper
	dir    string // os.TempDir() if empty
	today  func() date.Date
	logger *zap.Logger
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	key = fmt.Sprintf("eodhd-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("http", zap.String("method", resp.Request.Method),
		zap.String("url", resp.Request.URL.Host+resp.Request.URL.Path), zap.String("status", resp.Status))
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.logger.Warn("cache write failed, ignored", zap.Error(err))
	}
	return resp, nil
}

func (c *diskCache) file(key string) string {
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(c.file(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache, resp.Body stays readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(c.file(key), content, 0o600)
}

// newDailyCachingClient returns an http.Client that uses a disk cache where entries expire daily.
func newDailyCachingClient(logger *zap.Logger) *http.Client {
	return &http.Client{
		Transport: &diskCache{base: http.DefaultTransport, today: date.Today, logger: logger},
	}
}
