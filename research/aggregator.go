// Package research turns a free-text query into a bounded text digest: one
// search request, then the top organic results are fetched concurrently and
// reduced to plain text excerpts.
package research

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/taskrouter/logging"
)

const (
	DefaultTopResults   = 3
	DefaultExcerptChars = 1500
)

// PageReader returns the plain text of a page (see extract.Reader).
type PageReader interface {
	Read(ctx context.Context, url string) (string, error)
}

// AggregatorOptions configure an Aggregator.
type AggregatorOptions struct {
	TopResults   int
	ExcerptChars int
	Logger       logging.Logger
}

// Aggregator drives search, fetch and extraction for a query.
type Aggregator struct {
	searcher Searcher
	reader   PageReader
	opts     AggregatorOptions
}

// NewAggregator creates an Aggregator.
func NewAggregator(s Searcher, r PageReader, optFns ...func(o *AggregatorOptions)) *Aggregator {
	opts := AggregatorOptions{
		TopResults:   DefaultTopResults,
		ExcerptChars: DefaultExcerptChars,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TopResults <= 0 {
		opts.TopResults = DefaultTopResults
	}
	if opts.ExcerptChars <= 0 {
		opts.ExcerptChars = DefaultExcerptChars
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Aggregator{searcher: s, reader: r, opts: opts}
}

// Research returns the digest for query. It never fails: a failed search
// yields "", a failed page yields its title and snippet without excerpt.
//
// The digest is the answer box ("<title> <answer>") when present, followed
// by "<title>\n<snippet><excerpt>" for each of the top organic results in
// search order. It resolves once every issued fetch has completed.
func (a *Aggregator) Research(ctx context.Context, query string) string {
	resp, err := a.searcher.Search(ctx, query)
	if err != nil {
		a.opts.Logger.Warn("research.search.failed", "query", query, "error", err)
		return ""
	}
	if resp == nil {
		return ""
	}

	var sb strings.Builder
	if resp.AnswerBox != nil {
		sb.WriteString(resp.AnswerBox.Title + " " + resp.AnswerBox.Answer)
	}

	top := resp.Organic
	if len(top) > a.opts.TopResults {
		top = top[:a.opts.TopResults]
	}

	contributions := make([]string, len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, res := range top {
		g.Go(func() error {
			text, err := a.reader.Read(gctx, res.Link)
			if err != nil {
				a.opts.Logger.Warn("research.page.failed", "url", res.Link, "error", err)
				text = ""
			}
			contributions[i] = res.Title + "\n" + res.Snippet + truncate(text, a.opts.ExcerptChars)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range contributions {
		sb.WriteString(c)
	}

	a.opts.Logger.Info("research.done", "query", query, "results", len(top), "chars", sb.Len())
	return sb.String()
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
