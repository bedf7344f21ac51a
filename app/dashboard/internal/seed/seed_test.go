package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/data"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func TestDemo(t *testing.T) {
	fx := Demo()
	require.Len(t, fx.Accounts, 3)
	require.Len(t, fx.Plans, 2)
	assert.Len(t, fx.Contents, 6)

	p := fx.Plans[0]
	assert.Equal(t, "demo-1", p.ID)
	assert.Equal(t, "2025-03-01", domain.FormatDate(p.StartDate))
	assert.Equal(t, "2025-03-07", domain.FormatDate(p.EndDate))
	assert.Equal(t, 7, p.Count)
	assert.Len(t, p.Notes, 7)
	assert.Equal(t, "demo-note-1-0", p.Notes[0].ID)
	assert.Equal(t, "春季穿搭分享 1", p.Notes[0].Title)

	p2 := fx.Plans[1]
	assert.Equal(t, 6, p2.Count)
	assert.Equal(t, "https://picsum.photos/400/400?random=10", p2.Notes[0].ImageURL)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := `
accounts:
  - id: a1
    nickname: 测试账号
    followers: 10
    status: active
plans:
  - id: p1
    name: 测试计划
    start_date: 2025-04-01
    end_date: 2025-04-03
    count: 99
    account_id: a1
    notes:
      - id: n1
        title: 第一篇
        content: 内容
        tags: [测试]
      - id: n2
        title: 第二篇
        content: 内容
        image_url: https://example.com/n2.png
        platforms:
          wechat:
            title: 公众号标题
moments:
  - id: m1
    image_url: https://example.com/a.png
    content: 早安
    scheduled_time: 2025-04-01T08:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fx, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, fx.Plans, 1)

	p := fx.Plans[0]
	assert.Equal(t, 2, p.Count, "count follows the notes actually present")
	assert.Equal(t, 2, p.TargetCount)
	assert.Equal(t, "2025-04-01", domain.FormatDate(p.StartDate))
	require.NotNil(t, p.Notes[1].Platforms)
	assert.Equal(t, "公众号标题", p.Notes[1].Effective(domain.PlatformWechat).Title)
	assert.Equal(t, "第二篇", p.Notes[1].Effective(domain.PlatformXiaohongshu).Title)
	wechat := p.Notes[1].Effective(domain.PlatformWechat)
	assert.Equal(t, "内容", wechat.Content, "fields missing from the override fall back to the base note")
	assert.Equal(t, "https://example.com/n2.png", wechat.ImageURL)
	require.Len(t, fx.Moments, 1)
	assert.Equal(t, domain.MomentPending, fx.Moments[0].moment().Status)
}

func TestLoadFile_InvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plans:\n  - id: p1\n    start_date: 2025-04-03\n    end_date: 2025-04-01\n"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestApply_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	d, cleanup, err := data.NewData(&conf.Data{Database: &conf.Database{Driver: data.DriverMemory}}, log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()

	repos := Repos{
		Plans:    data.NewPlanRepo(d, log.DefaultLogger),
		Accounts: data.NewAccountRepo(d),
		Contents: data.NewContentRepo(d),
		Moments:  data.NewMomentRepo(d),
	}
	require.NoError(t, Apply(ctx, Demo(), repos))
	require.NoError(t, Apply(ctx, Demo(), repos))

	plans, err := repos.Plans.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	accounts, err := repos.Accounts.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
	contents, err := repos.Contents.ListContents(ctx)
	require.NoError(t, err)
	assert.Len(t, contents, 6)
}
