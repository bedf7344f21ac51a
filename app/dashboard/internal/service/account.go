package service

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type AccountsReply struct {
	Accounts []*domain.Account `json:"accounts"`
}

type AccountIDReq struct {
	ID string `json:"id"`
}

type CreateAccountReq struct {
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Followers int    `json:"followers"`
	Posts     int    `json:"posts"`
}

func (s *DashboardService) ListAccounts(ctx context.Context, _ *Empty) (*AccountsReply, error) {
	as, err := s.ucAccount.List(ctx)
	if err != nil {
		return nil, err
	}
	return &AccountsReply{Accounts: as}, nil
}

func (s *DashboardService) GetAccount(ctx context.Context, req *AccountIDReq) (*domain.Account, error) {
	return s.ucAccount.Get(ctx, req.ID)
}

func (s *DashboardService) CreateAccount(ctx context.Context, req *CreateAccountReq) (*domain.Account, error) {
	return s.ucAccount.Onboard(ctx, &biz.OnboardRequest{
		Nickname:  req.Nickname,
		Avatar:    req.Avatar,
		Followers: req.Followers,
		Posts:     req.Posts,
	})
}

func (s *DashboardService) AccountOverview(ctx context.Context, _ *Empty) (*domain.AccountOverview, error) {
	return s.ucAccount.Overview(ctx)
}
