package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func newMemoryData(t *testing.T) *Data {
	t.Helper()
	d, cleanup, err := NewData(&conf.Data{}, log.DefaultLogger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return d
}

func samplePlan(id string) *domain.Plan {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	scheduled := time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC)
	return &domain.Plan{
		ID:          id,
		Name:        "春季计划",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 6),
		Count:       2,
		TargetCount: 3,
		Notes: []*domain.Note{
			{ID: id + "-a", Title: "第一篇", Content: "正文", ImageURL: "https://img/1", Tags: []string{"穿搭", "春季"}},
			{
				ID: id + "-b", Title: "第二篇", Content: "正文二", Tone: domain.ToneCasual, ScheduledTime: &scheduled,
				Platforms: &domain.Platforms{Wechat: &domain.PlatformContent{Title: "公众号标题"}},
			},
		},
		CreatedAt: start,
	}
}

func TestNewData_UnsupportedDriver(t *testing.T) {
	_, _, err := NewData(&conf.Data{Database: &conf.Database{Driver: "mysql"}}, log.DefaultLogger)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMemPlanRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepo(newMemoryData(t), log.DefaultLogger)
	exercisePlanRepo(t, ctx, repo, "p1", "p2")
}

// exercisePlanRepo 两种实现共用的行为检查
func exercisePlanRepo(t *testing.T, ctx context.Context, repo biz.PlanRepo, id1, id2 string) {
	t.Helper()
	p := samplePlan(id1)
	require.NoError(t, repo.SavePlan(ctx, p))
	require.NoError(t, repo.SavePlan(ctx, samplePlan(id2)))

	// 调用方持有的对象不影响已保存的数据
	p.Notes[0].Title = "外部修改"

	got, err := repo.GetPlan(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "第一篇", got.Notes[0].Title)
	assert.Equal(t, []string{"穿搭", "春季"}, got.Notes[0].Tags)
	assert.Equal(t, 3, got.TargetCount)
	require.NotNil(t, got.Notes[1].ScheduledTime)
	assert.True(t, got.Notes[1].ScheduledTime.Equal(*samplePlan(id1).Notes[1].ScheduledTime))
	assert.Equal(t, "公众号标题", got.Notes[1].Effective(domain.PlatformWechat).Title)
	assert.Equal(t, "2025-03-07", domain.FormatDate(got.EndDate))

	got.Notes = got.Notes[1:]
	got.Count = 1
	require.NoError(t, repo.SavePlan(ctx, got))
	again, err := repo.GetPlan(ctx, id1)
	require.NoError(t, err)
	require.Len(t, again.Notes, 1)
	assert.Equal(t, id1+"-b", again.Notes[0].ID)

	list, err := repo.ListPlans(ctx)
	require.NoError(t, err)
	var listed []string
	for _, lp := range list {
		if lp.ID == id1 || lp.ID == id2 {
			listed = append(listed, lp.ID)
		}
	}
	assert.Equal(t, []string{id1, id2}, listed)

	require.NoError(t, repo.DeletePlan(ctx, id1))
	_, err = repo.GetPlan(ctx, id1)
	assert.Equal(t, biz.ReasonPlanNotFound, errors.Reason(err))
	assert.Equal(t, biz.ReasonPlanNotFound, errors.Reason(repo.DeletePlan(ctx, id1)))
	require.NoError(t, repo.DeletePlan(ctx, id2))
}

func TestMemUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newMemoryData(t), log.DefaultLogger)
	exerciseUserRepo(t, ctx, repo, "alice")
}

func exerciseUserRepo(t *testing.T, ctx context.Context, repo biz.UserRepo, name string) {
	t.Helper()
	u := &domain.User{Username: name, PasswordHash: "hash", Nickname: name}
	require.NoError(t, repo.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.CreateUser(ctx, &domain.User{Username: name, PasswordHash: "x"})
	assert.Equal(t, "USER_EXISTS", errors.Reason(err))

	u.Nickname = "新昵称"
	u.Avatar = "https://img/a"
	require.NoError(t, repo.UpdateUser(ctx, u))
	got, err := repo.GetUserByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "新昵称", got.Nickname)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.GetUserByUsername(ctx, name+"-missing")
	assert.Equal(t, biz.ReasonUserNotFound, errors.Reason(err))
}

func TestAccountRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepo(newMemoryData(t))
	require.NoError(t, repo.CreateAccount(ctx, &domain.Account{ID: "a", Nickname: "一"}))
	require.NoError(t, repo.CreateAccount(ctx, &domain.Account{ID: "b", Nickname: "二"}))
	assert.Equal(t, "ACCOUNT_EXISTS", errors.Reason(repo.CreateAccount(ctx, &domain.Account{ID: "a"})))

	list, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	list[0].Nickname = "改"

	got, err := repo.GetAccount(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "一", got.Nickname)
	_, err = repo.GetAccount(ctx, "z")
	assert.Equal(t, biz.ReasonAccountNotFound, errors.Reason(err))
}

func TestContentRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepo(newMemoryData(t))
	require.NoError(t, repo.SaveContents(ctx,
		&domain.ContentItem{ID: "1", Title: "一", Tags: []string{"x"}},
		&domain.ContentItem{ID: "2", Title: "二"},
	))
	require.NoError(t, repo.SaveContents(ctx, &domain.ContentItem{ID: "1", Title: "一改"}))

	list, err := repo.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "一改", list[0].Title)
	assert.Equal(t, "2", list[1].ID)

	require.NoError(t, repo.DeleteContent(ctx, "1"))
	_, err = repo.GetContent(ctx, "1")
	assert.Equal(t, biz.ReasonContentNotFound, errors.Reason(err))
	assert.Equal(t, biz.ReasonContentNotFound, errors.Reason(repo.DeleteContent(ctx, "1")))
}

func TestMomentRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMomentRepo(newMemoryData(t))
	m := &domain.Moment{ID: "m1", Content: "早安", Status: domain.MomentPending}
	require.NoError(t, repo.SaveMoment(ctx, m))
	m.Content = "外部修改"

	got, err := repo.GetMoment(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "早安", got.Content)

	got.Status = domain.MomentSent
	require.NoError(t, repo.SaveMoment(ctx, got))
	list, err := repo.ListMoments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.MomentSent, list[0].Status)

	require.NoError(t, repo.DeleteMoment(ctx, "m1"))
	assert.Equal(t, biz.ReasonMomentNotFound, errors.Reason(repo.DeleteMoment(ctx, "m1")))
}

// 设置 CONTENT_OPS_TEST_PG 为连接串时对真实 postgres 运行同一组检查
func TestPostgresRepos(t *testing.T) {
	dsn := os.Getenv("CONTENT_OPS_TEST_PG")
	if dsn == "" {
		t.Skip("CONTENT_OPS_TEST_PG not set")
	}
	ctx := context.Background()
	d, cleanup, err := NewData(&conf.Data{Database: &conf.Database{Driver: DriverPostgres, Source: dsn}}, log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()

	suffix := uuid.NewString()
	exercisePlanRepo(t, ctx, NewPlanRepo(d, log.DefaultLogger), "t1-"+suffix, "t2-"+suffix)
	exerciseUserRepo(t, ctx, NewUserRepo(d, log.DefaultLogger), "user-"+suffix)
}
