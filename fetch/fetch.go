// Package fetch retrieves raw page content for a URL. Every fetcher honors
// context cancellation plus its own timeout, and reports any failure as
// ErrFetch so callers can degrade to empty content.
package fetch

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/logging"
)

// ErrFetch wraps every transport, timeout or status failure.
var ErrFetch = core.ErrFetch

// Fetcher retrieves the raw document behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) { return f(ctx, url) }

// Kind selects a Fetcher implementation.
type Kind string

const (
	KindHTTP     Kind = "http"
	KindChromedp Kind = "chromedp"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 2 << 20
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"
)

// Options configure fetchers built by New.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	Logger    logging.Logger
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Logger == nil {
		o.Logger = logging.NoOpLogger{}
	}
}

// New builds the fetcher of the given kind.
func New(kind Kind, optFns ...func(o *Options)) (Fetcher, error) {
	switch kind {
	case "", KindHTTP:
		return NewHTTPFetcher(optFns...), nil
	case KindChromedp:
		return NewBrowserFetcher(optFns...), nil
	default:
		return nil, fmt.Errorf("unsupported fetcher kind %q", kind)
	}
}

// capBytes cuts s to at most n bytes without splitting a UTF-8 sequence.
func capBytes(s string, n int64) string {
	if int64(len(s)) <= n {
		return s
	}
	s = s[:n]
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		if utf8.RuneStart(s[i]) {
			if !utf8.FullRuneInString(s[i:]) {
				return s[:i]
			}
			break
		}
	}
	return s
}
