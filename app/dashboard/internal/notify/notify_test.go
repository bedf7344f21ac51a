package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func testPlan() *domain.Plan {
	start, _ := domain.ParseDate("2025-03-01")
	end, _ := domain.ParseDate("2025-03-02")
	return &domain.Plan{
		ID: "p1", Name: "春季穿搭系列计划", StartDate: start, EndDate: end, Count: 2,
		Notes: []*domain.Note{
			{ID: "n1", Title: "第一篇"},
			{ID: "n2", Title: "第二篇", Platforms: &domain.Platforms{Xiaohongshu: &domain.PlatformContent{Title: "小红书标题"}}},
		},
	}
}

func TestSummary(t *testing.T) {
	got := Summary(testPlan(), &domain.Account{Nickname: "时尚生活家"})
	want := "发布计划「春季穿搭系列计划」已确认执行\n" +
		"时间：2025-03-01 至 2025-03-02，共 2 篇\n" +
		"账号：时尚生活家\n" +
		"2025-03-01  第一篇\n" +
		"2025-03-02  小红书标题"
	assert.Equal(t, want, got)
}

func TestLog(t *testing.T) {
	assert.NoError(t, NewLog(log.DefaultLogger).PlanConfirmed(context.Background(), testPlan(), nil))
}

func TestSlack(t *testing.T) {
	var channel, text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		channel = r.PostForm.Get("channel")
		text = r.PostForm.Get("text")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "channel": "C123", "ts": "1700000000.000100"}`))
	}))
	defer srv.Close()

	s := NewSlack("xoxb-test", "#content-ops", slack.OptionAPIURL(srv.URL+"/"))
	require.NoError(t, s.PlanConfirmed(context.Background(), testPlan(), nil))
	assert.Equal(t, "#content-ops", channel)
	assert.Contains(t, text, "春季穿搭系列计划")
}

func TestSlack_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	s := NewSlack("xoxb-test", "#missing", slack.OptionAPIURL(srv.URL+"/"))
	err := s.PlanConfirmed(context.Background(), testPlan(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}
