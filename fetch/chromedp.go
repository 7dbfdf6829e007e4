package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome, which helps with sites
// that build their DOM client side.
type BrowserFetcher struct {
	opts Options
}

// NewBrowserFetcher creates a chromedp backed fetcher.
func NewBrowserFetcher(optFns ...func(o *Options)) *BrowserFetcher {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.defaults()
	return &BrowserFetcher{opts: opts}
}

// Fetch navigates to url and returns the outer HTML of the document.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%w: empty url", ErrFetch)
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(f.opts.UserAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		f.opts.Logger.Debug("fetch.chromedp.failed", "url", url, "error", err)
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	return capBytes(html, f.opts.MaxBytes), nil
}
