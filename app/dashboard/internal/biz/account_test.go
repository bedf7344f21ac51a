package biz

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func TestAccountOverview(t *testing.T) {
	repo := &fakeAccountRepo{accounts: []*domain.Account{
		{ID: "1", Followers: 12500, Posts: 156, Status: domain.AccountActive,
			Growth: domain.Growth{Followers: 320, Views: 15600, Likes: 2300, Saves: 890, Comments: 456}},
		{ID: "2", Followers: 8900, Posts: 98, Status: domain.AccountInactive,
			Growth: domain.Growth{Followers: 150, Views: 8900, Likes: 1200, Saves: 450, Comments: 234}},
	}}
	uc := NewAccountUseCase(repo, log.DefaultLogger)

	ov, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.AccountOverview{
		AccountCount:    2,
		ActiveCount:     1,
		FollowerGrowth:  470,
		ViewGrowth:      24500,
		InteractionSum:  2300 + 456 + 1200 + 234,
		TotalFollowers:  21400,
		TotalPostsCount: 254,
	}, ov)
}

func TestAccountOnboard(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAccountRepo{}
	uc := NewAccountUseCase(repo, log.DefaultLogger)

	_, err := uc.Onboard(ctx, &OnboardRequest{Nickname: "  "})
	assert.Equal(t, ReasonMissingField, reasonOf(err))

	a, err := uc.Onboard(ctx, &OnboardRequest{Nickname: " 新账号 ", Followers: 10})
	require.NoError(t, err)
	assert.Equal(t, "新账号", a.Nickname)
	assert.True(t, a.Active())
	assert.Contains(t, a.Avatar, "picsum.photos")

	got, err := uc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	_, err = uc.Get(ctx, "missing")
	assert.Equal(t, ReasonAccountNotFound, reasonOf(err))
}
