package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/logging"
)

// DefaultSerperEndpoint is the Serper Google search endpoint.
const DefaultSerperEndpoint = "https://google.serper.dev/search"

// AnswerBox is a direct answer returned by the search engine.
type AnswerBox struct {
	Title  string `json:"title"`
	Answer string `json:"answer"`
}

// OrganicResult is a single ranked search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// SearchResponse is the subset of a search response the aggregator uses.
type SearchResponse struct {
	AnswerBox *AnswerBox      `json:"answerBox,omitempty"`
	Organic   []OrganicResult `json:"organic"`
}

// Searcher issues a web search.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SerperOptions configure a SerperClient.
type SerperOptions struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// SerperClient is a Searcher backed by serper.dev.
type SerperClient struct {
	apiKey string
	opts   SerperOptions
}

// NewSerperClient creates a Serper search client.
func NewSerperClient(apiKey string, optFns ...func(o *SerperOptions)) *SerperClient {
	opts := SerperOptions{
		Endpoint: DefaultSerperEndpoint,
		Timeout:  15 * time.Second,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &SerperClient{apiKey: apiKey, opts: opts}
}

// Search posts {"q": query} and decodes the answer box and organic results.
func (s *SerperClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	body, err := json.Marshal(map[string]any{"q": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: search status %d", core.ErrFetch, resp.StatusCode)
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	s.opts.Logger.Debug("research.search.done", "query", query, "organic", len(out.Organic), "answer_box", out.AnswerBox != nil)
	return &out, nil
}
