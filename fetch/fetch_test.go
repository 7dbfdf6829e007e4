package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_SendsHeadersAndReturnsBody(t *testing.T) {
	var gotUA, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(func(o *Options) { o.UserAgent = "test-agent" })
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html><body>hi</body></html>", body)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "text/html", gotCT)
}

func TestHTTPFetcher_StatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "403")
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(func(o *Options) { o.Timeout = 50 * time.Millisecond })
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestHTTPFetcher_MaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(func(o *Options) { o.MaxBytes = 10 })
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 10)
}

func TestHTTPFetcher_MaxBytesKeepsRunesWhole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("abcdefghié and more"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(func(o *Options) { o.MaxBytes = 10 })
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "abcdefghi", body)
	assert.True(t, utf8.ValidString(body))
}

func TestCapBytes(t *testing.T) {
	assert.Equal(t, "short", capBytes("short", 10))
	assert.Equal(t, "exact", capBytes("exact", 5))
	assert.Equal(t, "ab", capBytes("abcd", 2))
	assert.Equal(t, "aé", capBytes("aéb", 3))
	assert.Equal(t, "a", capBytes("aéb", 2))
	assert.Equal(t, "", capBytes("日本", 2))
	assert.Equal(t, "日", capBytes("日本", 5))
	assert.Equal(t, "x", capBytes("x😀", 4))
}

func TestHTTPFetcher_InvalidURL(t *testing.T) {
	_, err := NewHTTPFetcher().Fetch(context.Background(), "://bad")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestNew(t *testing.T) {
	f, err := New(KindHTTP)
	require.NoError(t, err)
	assert.IsType(t, &HTTPFetcher{}, f)

	f, err = New(KindChromedp)
	require.NoError(t, err)
	assert.IsType(t, &BrowserFetcher{}, f)

	_, err = New("carrier-pigeon")
	assert.Error(t, err)
}

func TestBrowserFetcher_EmptyURL(t *testing.T) {
	_, err := NewBrowserFetcher().Fetch(context.Background(), " ")
	assert.ErrorIs(t, err, ErrFetch)
}
