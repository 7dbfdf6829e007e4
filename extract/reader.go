package extract

import (
	"context"
	"strings"

	"github.com/hupe1980/taskrouter/fetch"
)

// Reader fetches a page and extracts its text.
type Reader struct {
	fetcher fetch.Fetcher
}

// NewReader creates a Reader on top of f.
func NewReader(f fetch.Fetcher) *Reader { return &Reader{fetcher: f} }

// Read returns the normalized text of the page at url. URLs pointing at PDF
// documents return empty content without fetching. Fetch failures are
// returned wrapped in fetch.ErrFetch, a document without body as
// ErrMissingBody.
func (r *Reader) Read(ctx context.Context, url string) (string, error) {
	if IsPDF(url) {
		return "", nil
	}
	doc, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return Text(doc)
}

// IsPDF reports whether url refers to a PDF document.
func IsPDF(url string) bool {
	return strings.Contains(strings.ToLower(url), ".pdf")
}
