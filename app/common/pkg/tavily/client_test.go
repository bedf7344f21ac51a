package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))

		var req searchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "春季穿搭", req.Query)
		assert.Equal(t, "advanced", req.SearchDepth)
		assert.Equal(t, "general", req.Topic)
		assert.Equal(t, 3, req.MaxResults)
		assert.True(t, req.IncludeImages)

		w.Write([]byte(`{"results":[{"title":"春季穿搭指南","url":"https://example.com/a","content":"body","score":0.9}],
			"images":["https://img.example.com/1.jpg"]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-key", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()), WithAdvancedDepth())
	resp, err := c.Search(context.Background(), &search.Request{Query: "春季穿搭", Limit: 3, WithImages: true})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "body", resp.Results[0].Snippet)
	assert.Equal(t, "https://img.example.com/1.jpg", resp.ImageFor(0))
}

func TestClient_SearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"error":"Unauthorized: missing or invalid API key."}}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithEndpoint(srv.URL)).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid API key")
}
