package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/extract"
	"github.com/hupe1980/taskrouter/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	resp *SearchResponse
	err  error
}

func (f fakeSearcher) Search(context.Context, string) (*SearchResponse, error) { return f.resp, f.err }

type fakeReader struct {
	pages  map[string]string
	delays map[string]time.Duration
	errs   map[string]error
	calls  atomic.Int32
}

func (f *fakeReader) Read(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	if d := f.delays[url]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := f.errs[url]; err != nil {
		return "", err
	}
	return f.pages[url], nil
}

func TestAggregator_EmptyResultsResolveImmediately(t *testing.T) {
	reader := &fakeReader{}
	a := NewAggregator(fakeSearcher{resp: &SearchResponse{}}, reader)

	done := make(chan string, 1)
	go func() { done <- a.Research(context.Background(), "nothing") }()

	select {
	case got := <-done:
		assert.Equal(t, "", got)
	case <-time.After(time.Second):
		t.Fatal("aggregation did not resolve")
	}
	assert.Zero(t, reader.calls.Load())
}

func TestAggregator_SearchFailureYieldsEmpty(t *testing.T) {
	a := NewAggregator(fakeSearcher{err: errors.New("quota")}, &fakeReader{})
	assert.Equal(t, "", a.Research(context.Background(), "q"))
}

func TestAggregator_AnswerBoxAndOrganicInIssueOrder(t *testing.T) {
	resp := &SearchResponse{
		AnswerBox: &AnswerBox{Title: "Capital", Answer: "Paris"},
		Organic: []OrganicResult{
			{Title: "A", Link: "a", Snippet: "sa"},
			{Title: "B", Link: "b", Snippet: "sb"},
			{Title: "C", Link: "c", Snippet: "sc"},
			{Title: "D", Link: "d", Snippet: "sd"},
		},
	}
	reader := &fakeReader{
		pages:  map[string]string{"a": "[pa]", "b": "[pb]", "c": "[pc]", "d": "[pd]"},
		delays: map[string]time.Duration{"a": 30 * time.Millisecond, "b": 15 * time.Millisecond},
	}

	got := NewAggregator(fakeSearcher{resp: resp}, reader).Research(context.Background(), "q")

	assert.Equal(t, "Capital ParisA\nsa[pa]B\nsb[pb]C\nsc[pc]", got)
	assert.Equal(t, int32(3), reader.calls.Load())
}

func TestAggregator_PageFailureDegrades(t *testing.T) {
	resp := &SearchResponse{Organic: []OrganicResult{
		{Title: "A", Link: "a", Snippet: "sa"},
		{Title: "B", Link: "b", Snippet: "sb"},
	}}
	reader := &fakeReader{
		pages: map[string]string{"b": "[pb]"},
		errs:  map[string]error{"a": extract.ErrMissingBody},
	}

	got := NewAggregator(fakeSearcher{resp: resp}, reader).Research(context.Background(), "q")
	assert.Equal(t, "A\nsaB\nsb[pb]", got)
}

func TestAggregator_ExcerptIsBounded(t *testing.T) {
	resp := &SearchResponse{Organic: []OrganicResult{{Title: "T", Link: "x", Snippet: "s"}}}
	reader := &fakeReader{pages: map[string]string{"x": strings.Repeat("é", 2000)}}

	got := NewAggregator(fakeSearcher{resp: resp}, reader, func(o *AggregatorOptions) {
		o.ExcerptChars = 1500
	}).Research(context.Background(), "q")

	assert.Equal(t, "T\ns"+strings.Repeat("é", 1500), got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "日本", truncate("日本語", 2))
}

func TestSerperClient_Search(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["q"]
		_, _ = w.Write([]byte(`{"answerBox":{"title":"T","answer":"A"},"organic":[{"title":"x","link":"http://x","snippet":"s"}]}`))
	}))
	defer srv.Close()

	c := NewSerperClient("secret", func(o *SerperOptions) { o.Endpoint = srv.URL })
	resp, err := c.Search(context.Background(), "golang")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "golang", gotQuery)
	require.NotNil(t, resp.AnswerBox)
	assert.Equal(t, "A", resp.AnswerBox.Answer)
	require.Len(t, resp.Organic, 1)
	assert.Equal(t, "http://x", resp.Organic[0].Link)
}

func TestSerperClient_StatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewSerperClient("bad", func(o *SerperOptions) { o.Endpoint = srv.URL }).Search(context.Background(), "q")
	assert.ErrorIs(t, err, core.ErrFetch)
}

func TestPipeline_SerperFetchExtract(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`<html><body><script>track()</script><p>Go is  fun</p></body></html>`))
	}))
	defer pages.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(SearchResponse{Organic: []OrganicResult{
			{Title: "Ok", Link: pages.URL + "/ok", Snippet: "good"},
			{Title: "Broken", Link: pages.URL + "/broken", Snippet: "bad"},
			{Title: "Paper", Link: pages.URL + "/paper.pdf", Snippet: "pdf"},
		}})
	}))
	defer search.Close()

	agg := NewAggregator(
		NewSerperClient("k", func(o *SerperOptions) { o.Endpoint = search.URL }),
		extract.NewReader(fetch.NewHTTPFetcher()),
	)

	got := agg.Research(context.Background(), "go")
	assert.Equal(t, "Ok\ngoodGo isfunBroken\nbadPaper\npdf", got)
}

func TestConductResearchTool(t *testing.T) {
	resp := &SearchResponse{AnswerBox: &AnswerBox{Title: "T", Answer: "A"}}
	researchTool := NewConductResearchTool(NewAggregator(fakeSearcher{resp: resp}, &fakeReader{}))

	tc := core.NewToolContext(context.Background(), "c1", "Researcher", nil, nil)
	res, err := researchTool.Call(tc, map[string]any{"query": "capital of france"})
	require.NoError(t, err)

	assert.Equal(t, "T A", res.Value)
	assert.Equal(t, map[string]any{"query": "capital of france"}, res.ContextPatch["lastResearch"])
	assert.Nil(t, res.AgentSwitch)
}
