// Package material 按主题搜索笔记素材，摘要太短时抓取原文正文
package material

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
)

const (
	minSnippetRunes = 80
	fetchTimeout    = 30 * time.Second
)

// FetchFunc 抓取网页正文
type FetchFunc func(ctx context.Context, url string) (string, error)

// Source 基于搜索引擎的素材来源
type Source struct {
	searcher search.Searcher
	fetch    FetchFunc
	log      *log.Helper
}

// NewSource enrich 为 true 时用 readability 补全过短的摘要
func NewSource(searcher search.Searcher, enrich bool, logger log.Logger) *Source {
	s := &Source{
		searcher: searcher,
		log:      log.NewHelper(log.With(logger, "module", "material")),
	}
	if enrich {
		s.fetch = fetchArticle
	}
	return s
}

// Find 搜索 n 条素材，结果不足 n 条时返回实际条数
func (s *Source) Find(ctx context.Context, theme string, n int) ([]biz.Material, error) {
	resp, err := s.searcher.Search(ctx, &search.Request{
		Query:      theme,
		Limit:      n,
		WithImages: true,
		Language:   "zh",
		SafeSearch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("search materials for %q: %w", theme, err)
	}

	out := make([]biz.Material, 0, n)
	for i, r := range resp.Results {
		if len(out) == n {
			break
		}
		m := biz.Material{
			Title:    strings.TrimSpace(r.Title),
			Body:     strings.TrimSpace(r.Snippet),
			Link:     r.URL,
			ImageURL: resp.ImageFor(i),
		}
		if s.fetch != nil && r.URL != "" && utf8.RuneCountInString(m.Body) < minSnippetRunes {
			text, err := s.fetch(ctx, r.URL)
			if err != nil {
				s.log.WithContext(ctx).Warnf("抓取正文失败 %s: %v", r.URL, err)
			} else if text = strings.TrimSpace(text); text != "" {
				m.Body = text
			}
		}
		out = append(out, m)
	}
	s.log.WithContext(ctx).Infof("found %d materials for theme %q", len(out), theme)
	return out, nil
}

func fetchArticle(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	article, err := readability.FromURL(url, fetchTimeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
