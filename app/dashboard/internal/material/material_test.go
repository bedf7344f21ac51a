package material

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/common/pkg/search"
)

type stubSearcher struct {
	resp *search.Response
	err  error
	req  *search.Request
}

func (s *stubSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	s.req = req
	return s.resp, s.err
}

func TestFind(t *testing.T) {
	ss := &stubSearcher{resp: &search.Response{
		Results: []search.Result{
			{Title: " 春季穿搭 ", URL: "https://a.example", Snippet: "短"},
			{Title: "通勤穿搭", URL: "https://b.example", Snippet: strings.Repeat("很长的摘要", 20), ImageURL: "https://img/b"},
			{Title: "多余的一条", URL: "https://c.example"},
		},
		Images: []string{"https://img/0", "https://img/1"},
	}}
	src := NewSource(ss, false, log.DefaultLogger)
	src.fetch = func(ctx context.Context, url string) (string, error) {
		return "抓取到的正文 " + url, nil
	}

	ms, err := src.Find(context.Background(), "春季穿搭", 2)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "春季穿搭", ss.req.Query)
	assert.True(t, ss.req.WithImages)
	assert.True(t, ss.req.SafeSearch)
	assert.Equal(t, 2, ss.req.Limit)

	assert.Equal(t, "春季穿搭", ms[0].Title)
	assert.Equal(t, "抓取到的正文 https://a.example", ms[0].Body)
	assert.Equal(t, "https://img/0", ms[0].ImageURL)
	assert.Equal(t, "https://img/b", ms[1].ImageURL)
	assert.Equal(t, strings.Repeat("很长的摘要", 20), ms[1].Body)
}

func TestFind_FetchErrorKeepsSnippet(t *testing.T) {
	ss := &stubSearcher{resp: &search.Response{Results: []search.Result{{Title: "t", URL: "https://a", Snippet: "摘要"}}}}
	src := NewSource(ss, false, log.DefaultLogger)
	src.fetch = func(ctx context.Context, url string) (string, error) { return "", errors.New("boom") }

	ms, err := src.Find(context.Background(), "x", 3)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "摘要", ms[0].Body)
}

func TestFind_SearchError(t *testing.T) {
	src := NewSource(&stubSearcher{err: errors.New("down")}, false, log.DefaultLogger)
	_, err := src.Find(context.Background(), "x", 1)
	assert.Error(t, err)
}

func TestFetchArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>春季穿搭</title></head><body><article>
<h1>春季穿搭指南</h1>
<p>春天到了，轻薄的针织开衫搭配阔腿裤，既舒适又有型。选择低饱和度的颜色，会让整体造型更温柔。</p>
<p>鞋子方面，乐福鞋和小白鞋都是百搭的选择，通勤和周末出游都很合适。</p>
<p>配饰可以选择简约的金属耳饰和帆布包，让整体造型更有层次感。</p>
</article></body></html>`)
	}))
	defer srv.Close()

	text, err := fetchArticle(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "阔腿裤")
}
