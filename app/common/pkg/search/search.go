// Package search 素材检索的通用接口，具体实现见 tavily 与 searxng
package search

import (
	"context"
	"errors"
	"strings"
)

const (
	DefaultLimit = 5
	MaxLimit     = 20
)

// ErrEmptyQuery 查询词为空
var ErrEmptyQuery = errors.New("search: empty query")

// Searcher 按关键词检索网页与配图
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 检索请求
type Request struct {
	Query string
	// Limit 期望的结果条数，0 使用 DefaultLimit，超过 MaxLimit 时截断
	Limit      int
	WithImages bool
	Language   string
	SafeSearch bool
}

// Normalize 去掉查询词首尾空白并修正条数，查询词为空时返回 ErrEmptyQuery
func (r *Request) Normalize() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrEmptyQuery
	}
	switch {
	case r.Limit <= 0:
		r.Limit = DefaultLimit
	case r.Limit > MaxLimit:
		r.Limit = MaxLimit
	}
	return nil
}

// Response 检索结果；Images 是与结果不一一对应的图片列表
type Response struct {
	Results []Result
	Images  []string
}

// ImageFor 第 i 条结果的配图：结果自带图片优先，其次取 Images 中同位置的图片
func (r *Response) ImageFor(i int) string {
	if i < 0 || i >= len(r.Results) {
		return ""
	}
	if img := r.Results[i].ImageURL; img != "" {
		return img
	}
	if i < len(r.Images) {
		return r.Images[i]
	}
	return ""
}

// Result 单条结果
type Result struct {
	Title    string
	URL      string
	Snippet  string
	ImageURL string
	Score    float64
}
