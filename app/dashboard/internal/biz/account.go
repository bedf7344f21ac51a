package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// AccountRepo 账号仓库接口
type AccountRepo interface {
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	// GetAccount 不存在时返回 ACCOUNT_NOT_FOUND
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	CreateAccount(ctx context.Context, a *domain.Account) error
}

// OnboardRequest 账号接入表单
type OnboardRequest struct {
	Nickname  string
	Avatar    string
	Followers int
	Posts     int
}

// AccountUseCase 账号概览业务逻辑
type AccountUseCase struct {
	repo AccountRepo
	log  *log.Helper
}

// NewAccountUseCase 创建账号业务逻辑实例
func NewAccountUseCase(repo AccountRepo, logger log.Logger) *AccountUseCase {
	return &AccountUseCase{repo: repo, log: log.NewHelper(log.With(logger, "module", "biz/account"))}
}

// List 全部账号
func (uc *AccountUseCase) List(ctx context.Context) ([]*domain.Account, error) {
	return uc.repo.ListAccounts(ctx)
}

// Get 单个账号
func (uc *AccountUseCase) Get(ctx context.Context, id string) (*domain.Account, error) {
	return uc.repo.GetAccount(ctx, id)
}

// Onboard 通过接入表单创建账号，之后只读
func (uc *AccountUseCase) Onboard(ctx context.Context, req *OnboardRequest) (*domain.Account, error) {
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, ErrMissingField("nickname")
	}
	a := &domain.Account{
		ID:        uuid.NewString(),
		Nickname:  nickname,
		Avatar:    req.Avatar,
		Followers: req.Followers,
		Posts:     req.Posts,
		Status:    domain.AccountActive,
	}
	if a.Avatar == "" {
		a.Avatar = fmt.Sprintf("https://picsum.photos/100/100?random=%s", a.ID[:8])
	}
	if err := uc.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("account onboarded: id=%s nickname=%s", a.ID, a.Nickname)
	return a, nil
}

// Overview 汇总全部账号的周增长
func (uc *AccountUseCase) Overview(ctx context.Context) (*domain.AccountOverview, error) {
	accounts, err := uc.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	ov := &domain.AccountOverview{AccountCount: len(accounts)}
	for _, a := range accounts {
		if a.Active() {
			ov.ActiveCount++
		}
		ov.FollowerGrowth += a.Growth.Followers
		ov.ViewGrowth += a.Growth.Views
		ov.InteractionSum += a.Growth.Likes + a.Growth.Comments
		ov.TotalFollowers += a.Followers
		ov.TotalPostsCount += a.Posts
	}
	return ov, nil
}
