package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "探店", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "general,images", q.Get("categories"))
		assert.Equal(t, "1", q.Get("safesearch"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"results":[
			{"title":"a","url":"https://a","content":"aa","img_src":"https://a/1.jpg"},
			{"title":"","url":"","img_src":"https://a/1.jpg"},
			{"title":"","url":"","img_src":"https://x/2.jpg"},
			{"title":"b","url":"https://b"},
			{"title":"c","url":"https://c"}
		]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/", 5).Search(context.Background(),
		&search.Request{Query: " 探店 ", Limit: 2, WithImages: true, SafeSearch: true})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "aa", resp.Results[0].Snippet)
	assert.Equal(t, "b", resp.Results[1].Title)
	assert.Equal(t, []string{"https://a/1.jpg", "https://x/2.jpg"}, resp.Images)
	assert.Equal(t, "https://x/2.jpg", resp.ImageFor(1))
}

func TestClient_SearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, WithHTTPClient(srv.Client()))
	_, err := c.Search(context.Background(), &search.Request{Query: "x"})
	assert.ErrorContains(t, err, "status 429")

	_, err = c.Search(context.Background(), &search.Request{Query: " "})
	assert.ErrorIs(t, err, search.ErrEmptyQuery)
}
