package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPFetcher fetches documents with a plain HTTP GET.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// NewHTTPFetcher creates an HTTP fetcher.
func NewHTTPFetcher(optFns ...func(o *Options)) *HTTPFetcher {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.defaults()
	return &HTTPFetcher{client: &http.Client{Timeout: opts.Timeout}, opts: opts}
}

// WithClient replaces the underlying HTTP client (tests, proxies).
func (f *HTTPFetcher) WithClient(c *http.Client) *HTTPFetcher {
	f.client = c
	return f
}

// Fetch GETs url and returns at most MaxBytes of its body. Statuses of 400
// and above are failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Content-Type", "text/html")
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.opts.Logger.Debug("fetch.http.failed", "url", url, "error", err)
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		f.opts.Logger.Debug("fetch.http.status", "url", url, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	// One extra byte tells a body of exactly MaxBytes from a truncated one.
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	return capBytes(string(b), f.opts.MaxBytes), nil
}
