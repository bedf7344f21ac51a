package biz

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func contentFixture() *fakeContentRepo {
	return &fakeContentRepo{items: []*domain.ContentItem{
		{ID: "1", Title: "夏日清爽穿搭", Status: domain.ContentPublished, PublishTime: at("2024-03-20 14:30:00"), Tags: []string{"穿搭", "夏季"}},
		{ID: "2", Title: "春季护肤", Status: domain.ContentPending, PublishTime: at("2024-03-22 10:00:00"), Tags: []string{"护肤"}},
		{ID: "3", Title: "草稿", Status: domain.ContentDraft},
		{ID: "4", Title: "咖啡探店", Status: domain.ContentPublished, PublishTime: at("2024-03-25 09:00:00"), Tags: []string{"探店"}},
	}}
}

func ids(items []*domain.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestContentList(t *testing.T) {
	uc := NewContentUseCase(contentFixture(), log.DefaultLogger)
	tests := []struct {
		name   string
		filter ContentFilter
		want   []string
	}{
		{"all", ContentFilter{Status: "all"}, []string{"1", "2", "3", "4"}},
		{"empty status", ContentFilter{}, []string{"1", "2", "3", "4"}},
		{"published", ContentFilter{Status: "published"}, []string{"1", "4"}},
		{"range keeps undated", ContentFilter{From: *at("2024-03-21 00:00:00"), To: *at("2024-03-26 00:00:00")}, []string{"2", "3", "4"}},
		{"range bounds exclusive", ContentFilter{From: *at("2024-03-20 14:30:00"), To: *at("2024-03-25 09:00:00")}, []string{"2", "3"}},
		{"only from ignored", ContentFilter{From: *at("2024-04-01 00:00:00")}, []string{"1", "2", "3", "4"}},
		{"tag", ContentFilter{Tag: "护肤"}, []string{"2"}},
		{"status and tag", ContentFilter{Status: "published", Tag: "护肤"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestContentCalendarFor(t *testing.T) {
	uc := NewContentUseCase(contentFixture(), log.DefaultLogger)
	got, err := uc.CalendarFor(context.Background(), *at("2024-03-22 23:00:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestContentCRUD(t *testing.T) {
	ctx := context.Background()
	repo := &fakeContentRepo{}
	uc := NewContentUseCase(repo, log.DefaultLogger)

	_, err := uc.Create(ctx, &domain.ContentItem{Title: " "})
	assert.Equal(t, ReasonMissingField, reasonOf(err))
	_, err = uc.Create(ctx, &domain.ContentItem{Title: "x", Status: "archived"})
	assert.Equal(t, ReasonInvalidArgument, reasonOf(err))

	c, err := uc.Create(ctx, &domain.ContentItem{Title: "新内容"})
	require.NoError(t, err)
	assert.Equal(t, domain.ContentDraft, c.Status)
	assert.NotEmpty(t, c.ID)

	updated, err := uc.Update(ctx, c.ID, &domain.ContentItem{Title: "改名", Status: domain.ContentPending})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)
	require.Len(t, repo.items, 1)
	assert.Equal(t, "改名", repo.items[0].Title)

	_, err = uc.Update(ctx, "missing", &domain.ContentItem{Title: "x"})
	assert.Equal(t, ReasonContentNotFound, reasonOf(err))

	require.NoError(t, uc.Delete(ctx, c.ID))
	assert.Empty(t, repo.items)
	assert.Equal(t, ReasonContentNotFound, reasonOf(uc.Delete(ctx, c.ID)))
}

func TestContentCreateBatch(t *testing.T) {
	ctx := context.Background()
	repo := &fakeContentRepo{}
	uc := NewContentUseCase(repo, log.DefaultLogger)
	uc.rand = func(n int) int { return 0 }

	items, err := uc.CreateBatch(ctx, &BatchRequest{Count: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "主题 1", items[0].Title)
	assert.Equal(t, domain.ContentTypes[0], items[0].ContentType)
	assert.Equal(t, domain.Tones[0], items[1].Tone)
	assert.Empty(t, items[0].Tags)
	assert.Equal(t, domain.ContentDraft, items[1].Status)

	items, err = uc.CreateBatch(ctx, &BatchRequest{Theme: " 咖啡 ", Count: 1, Tone: domain.ToneHumorous})
	require.NoError(t, err)
	assert.Equal(t, "咖啡 1", items[0].Title)
	assert.Equal(t, []string{"咖啡"}, items[0].Tags)
	assert.Equal(t, domain.ToneHumorous, items[0].Tone)
	assert.Len(t, repo.items, 3)

	_, err = uc.CreateBatch(ctx, &BatchRequest{Count: 101})
	assert.Equal(t, ReasonInvalidCount, reasonOf(err))
}
