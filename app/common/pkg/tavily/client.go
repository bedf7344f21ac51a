// Package tavily Tavily 检索 API 客户端
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
)

const (
	defaultEndpoint = "https://api.tavily.com/search"
	defaultTimeout  = 30 * time.Second
)

// Client Tavily 客户端
type Client struct {
	apiKey   string
	endpoint string
	depth    string
	client   *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithEndpoint 替换接口地址
func WithEndpoint(u string) Option {
	return func(c *Client) { c.endpoint = u }
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithAdvancedDepth 使用 advanced 检索深度，消耗两倍额度
func WithAdvancedDepth() Option {
	return func(c *Client) { c.depth = "advanced" }
}

// NewClient 默认 basic 深度
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		depth:    "basic",
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ search.Searcher = (*Client)(nil)

type searchRequest struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	Topic         string `json:"topic"`
	MaxResults    int    `json:"max_results"`
	IncludeImages bool   `json:"include_images,omitempty"`
	SafeSearch    bool   `json:"safe_search,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
	Images []string `json:"images"`
}

type apiError struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

// Search Tavily 的配图不挂在单条结果上，统一放在 Images 中
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	r := *req
	if err := r.Normalize(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(searchRequest{
		Query:         r.Query,
		SearchDepth:   c.depth,
		Topic:         "general",
		MaxResults:    r.Limit,
		IncludeImages: r.WithImages,
		SafeSearch:    r.SafeSearch,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		msg := string(body)
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Detail.Error != "" {
			msg = ae.Detail.Error
		}
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode, msg)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode tavily response failed: %w", err)
	}
	resp := &search.Response{Images: sr.Images, Results: make([]search.Result, 0, len(sr.Results))}
	for _, item := range sr.Results {
		resp.Results = append(resp.Results, search.Result{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: item.Content,
			Score:   item.Score,
		})
	}
	return resp, nil
}
