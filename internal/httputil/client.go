// Package httputil provides a hardened HTTP client and input validation
// shared by the catalog and video source lookups.
package httputil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	userAgent = "mazflix/1.0 (+https://github.com/mazflix/mazflix)"

	// maxBody caps every response body we read.
	maxBody = 10 * 1024 * 1024
)

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	URL  string // redacted
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// NewClient creates a hardened HTTP client. A zero timeout means 30s.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}
}

func newRequest(ctx context.Context, rawURL, accept string) (*http.Request, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	return req, nil
}

// Get performs a GET for an HTML page. The caller closes the body of a
// successful response; non-200 responses are returned as *StatusError.
func Get(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	req, err := newRequest(ctx, rawURL, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", RedactURL(rawURL), err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, URL: RedactURL(rawURL)}
	}
	resp.Body = readCloser{io.LimitReader(resp.Body, maxBody), resp.Body}
	return resp, nil
}

// GetJSON performs a GET and decodes the JSON body into v.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	req, err := newRequest(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", RedactURL(rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, URL: RedactURL(rawURL)}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", RedactURL(rawURL), err)
	}
	return nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
