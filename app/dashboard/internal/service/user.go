package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginReply struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type RegisterReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UserInfoReply struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type UpdateUserInfoReq struct {
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
}

func toUserInfo(u *domain.User) *UserInfoReply {
	return &UserInfoReply{ID: u.ID, Username: u.Username, Nickname: u.Nickname, Avatar: u.Avatar}
}

func (s *DashboardService) Register(ctx context.Context, req *LoginReq) (*RegisterReply, error) {
	if _, err := s.ucUser.Register(ctx, req.Username, req.Password); err != nil {
		return nil, err
	}
	return &RegisterReply{Success: true, Message: "success"}, nil
}

func (s *DashboardService) Login(ctx context.Context, req *LoginReq) (*LoginReply, error) {
	token, err := s.ucUser.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return &LoginReply{Token: token, Username: req.Username}, nil
}

func (s *DashboardService) GetUserInfo(ctx context.Context, _ *Empty) (*UserInfoReply, error) {
	username, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.ucUser.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *DashboardService) UpdateUserInfo(ctx context.Context, req *UpdateUserInfoReq) (*UserInfoReply, error) {
	username, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.ucUser.UpdateProfile(ctx, username, biz.ProfilePatch{Nickname: req.Nickname, Avatar: req.Avatar})
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

// currentUser 从 jwt 中间件放入 context 的 claims 中取用户名
func currentUser(ctx context.Context) (string, error) {
	claims, ok := jwt.FromContext(ctx)
	if !ok {
		return "", errors.Unauthorized(biz.ReasonAuthFailed, "missing token")
	}
	mc, ok := claims.(jwtv5.MapClaims)
	if !ok {
		return "", errors.Unauthorized(biz.ReasonAuthFailed, "unexpected claims")
	}
	username, _ := mc["username"].(string)
	if username == "" {
		return "", errors.Unauthorized(biz.ReasonAuthFailed, "token has no username")
	}
	return username, nil
}
