package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// contains http utils to deal with remote market data services

// HTTPError is returned by GetJSON when the server answers with a non 200 status.
type HTTPError struct {
	Host, Path string
	StatusCode int
	Status     string
	Body       string // first bytes of the response body
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}

// Transient reports whether the request is worth retrying.
func (e *HTTPError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// maxPreview is the number of body bytes kept in HTTPError.
const maxPreview = 120

// GetJSON performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	body, err := Get(ctx, client, addr, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		preview := string(body)
		if len(preview) > maxPreview {
			preview = preview[:maxPreview]
		}
		return fmt.Errorf("failed to parse json: %w; body: %s", err, preview)
	}
	return nil
}

// Get performs an HTTP GET request with optional headers and returns the body of a 200 response.
func Get(ctx context.Context, client *http.Client, addr string, header http.Header) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		preview := buf.String()
		if len(preview) > maxPreview {
			preview = preview[:maxPreview]
		}
		return nil, &HTTPError{
			Host:       req.URL.Host,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       preview,
		}
	}
	return buf.Bytes(), nil
}
