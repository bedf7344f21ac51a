// Package factory 按配置选择检索实现
package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
	"github.com/iWorld-y/content_ops/app/common/pkg/searxng"
	"github.com/iWorld-y/content_ops/app/common/pkg/tavily"
)

const (
	ProviderTavily  = "tavily"
	ProviderSearXNG = "searxng"
)

// ErrNotConfigured 既没有指定提供方也没有 tavily key
var ErrNotConfigured = errors.New("search provider not configured")

// Config 检索提供方配置
type Config struct {
	Provider       string
	TavilyAPIKey   string
	SearXNGBaseURL string
	// SearXNGTimeout 单位为秒
	SearXNGTimeout int
}

// NewSearcher 未指定提供方时，有 tavily key 就用 tavily
func NewSearcher(cfg Config) (search.Searcher, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		if cfg.TavilyAPIKey == "" {
			return nil, ErrNotConfigured
		}
		provider = ProviderTavily
	}

	switch provider {
	case ProviderTavily:
		if cfg.TavilyAPIKey == "" {
			return nil, errors.New("tavily api key is missing")
		}
		return tavily.NewClient(cfg.TavilyAPIKey), nil
	case ProviderSearXNG:
		if cfg.SearXNGBaseURL == "" {
			return nil, errors.New("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNGBaseURL, cfg.SearXNGTimeout), nil
	}
	return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
}
