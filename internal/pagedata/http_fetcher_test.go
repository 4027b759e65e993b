package pagedata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder_app_echo/internal/models"
)

func newPageServer(t *testing.T, seen *[]*http.Request) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/pages", func(w http.ResponseWriter, r *http.Request) {
		*seen = append(*seen, r)
		switch r.URL.Query().Get("path") {
		case "/about":
			_ = json.NewEncoder(w).Encode(models.PageDescriptor{
				Title:   "About",
				Entries: []models.EntryComponentMeta{{DisplayName: "RichTextPage", Params: map[string]string{"body": "hi"}}},
			})
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/api/v1/content/hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Hello","body":"text"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherFetch(t *testing.T) {
	var seen []*http.Request
	srv := newPageServer(t, &seen)
	f := NewHTTPFetcher(srv.URL, "secret")

	desc, err := f.Fetch(context.Background(), "/about", FetchOptions{Origin: OriginServer})
	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, "/about", desc.Path)
	assert.Equal(t, "RichTextPage", desc.Entries[0].DisplayName)

	require.Len(t, seen, 1)
	assert.Equal(t, "secret", seen[0].Header.Get("X-Api-Key"))
	assert.Equal(t, "1", seen[0].URL.Query().Get("ssr"))
}

func TestHTTPFetcherClientOriginOmitsSSRFlag(t *testing.T) {
	var seen []*http.Request
	srv := newPageServer(t, &seen)
	f := NewHTTPFetcher(srv.URL, "")

	_, err := f.Fetch(context.Background(), "/about", FetchOptions{Origin: OriginClient})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.False(t, seen[0].URL.Query().Has("ssr"))
	assert.Empty(t, seen[0].Header.Get("X-Api-Key"))
}

func TestHTTPFetcherAbsentAndFailure(t *testing.T) {
	var seen []*http.Request
	srv := newPageServer(t, &seen)
	f := NewHTTPFetcher(srv.URL, "")

	desc, err := f.Fetch(context.Background(), "/missing", FetchOptions{})
	assert.NoError(t, err)
	assert.Nil(t, desc)

	desc, err = f.Fetch(context.Background(), "/broken", FetchOptions{})
	assert.Error(t, err)
	assert.Nil(t, desc)
}

func TestHTTPFetcherContent(t *testing.T) {
	var seen []*http.Request
	srv := newPageServer(t, &seen)
	f := NewHTTPFetcher(srv.URL, "")

	content, err := f.Content(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", content["title"])

	content, err = f.Content(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, content)
}
