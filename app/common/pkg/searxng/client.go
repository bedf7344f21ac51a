// Package searxng 自建 SearXNG 实例的检索客户端
package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; content-ops/1.0)"
	maxErrorBody   = 512
)

// Client SearXNG 客户端
type Client struct {
	endpoint string
	client   *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient timeout 单位为秒，0 表示 30 秒
func NewClient(baseURL string, timeout int, opts ...Option) *Client {
	t := time.Duration(timeout) * time.Second
	if t <= 0 {
		t = defaultTimeout
	}
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/search",
		client:   &http.Client{Timeout: t},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ search.Searcher = (*Client)(nil)

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	ImgSrc  string  `json:"img_src"`
	Score   float64 `json:"score"`
}

func (c *Client) buildURL(req *search.Request) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("format", "json")
	q.Set("categories", "general")
	if req.WithImages {
		q.Set("categories", "general,images")
	}
	if req.Language != "" {
		q.Set("language", req.Language)
	}
	if req.SafeSearch {
		q.Set("safesearch", "1")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Search 图片类结果只贡献配图，网页类结果按顺序取前 Limit 条
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	r := *req
	if err := r.Normalize(); err != nil {
		return nil, err
	}
	target, err := c.buildURL(&r)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	// 部分实例会拦截空 User-Agent
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("searxng request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode searxng response failed: %w", err)
	}

	resp := &search.Response{}
	seen := make(map[string]bool)
	for _, item := range sr.Results {
		if item.ImgSrc != "" && !seen[item.ImgSrc] {
			seen[item.ImgSrc] = true
			resp.Images = append(resp.Images, item.ImgSrc)
		}
		if item.URL == "" || strings.TrimSpace(item.Title) == "" || len(resp.Results) >= r.Limit {
			continue
		}
		resp.Results = append(resp.Results, search.Result{
			Title:    item.Title,
			URL:      item.URL,
			Snippet:  item.Content,
			ImageURL: item.ImgSrc,
			Score:    item.Score,
		})
	}
	return resp, nil
}
