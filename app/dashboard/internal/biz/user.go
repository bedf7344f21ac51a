package biz

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

const tokenTTL = 24 * time.Hour

// UserRepo 用户仓库接口
type UserRepo interface {
	// CreateUser 创建用户，用户名重复时返回 Conflict
	CreateUser(ctx context.Context, u *domain.User) error
	// GetUserByUsername 不存在时返回 USER_NOT_FOUND
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateUser 更新昵称与头像
	UpdateUser(ctx context.Context, u *domain.User) error
}

// ProfilePatch 用户信息的可修改字段
type ProfilePatch struct {
	Nickname *string
	Avatar   *string
}

// UserUseCase 用户业务逻辑
type UserUseCase struct {
	repo   UserRepo
	log    *log.Helper
	jwtKey string
	admin  [2]string
	now    func() time.Time
}

// NewUserUseCase 创建用户业务逻辑实例
func NewUserUseCase(repo UserRepo, auth *conf.Auth, logger log.Logger) *UserUseCase {
	uc := &UserUseCase{
		repo:   repo,
		log:    log.NewHelper(log.With(logger, "module", "biz/user")),
		jwtKey: "default-secret",
		now:    time.Now,
	}
	if auth != nil {
		if auth.JwtKey != "" {
			uc.jwtKey = auth.JwtKey
		}
		uc.admin = [2]string{auth.AdminUsername, auth.AdminPassword}
	}
	return uc
}

// JwtKey HTTP 鉴权中间件使用同一把密钥
func (uc *UserUseCase) JwtKey() []byte {
	return []byte(uc.jwtKey)
}

// Register 用户注册
func (uc *UserUseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingField("username")
	}
	if password == "" {
		return nil, ErrMissingField("password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     username,
		PasswordHash: string(hashed),
		Nickname:     username,
	}
	if err := uc.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 校验密码并签发 24 小时有效的 token
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (string, error) {
	u, err := uc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized(ReasonAuthFailed, "invalid username or password")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", errors.Unauthorized(ReasonAuthFailed, "invalid username or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": u.Username,
		"exp":      uc.now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(uc.jwtKey))
}

// GetProfile 获取用户信息
func (uc *UserUseCase) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	return uc.repo.GetUserByUsername(ctx, username)
}

// UpdateProfile 更新昵称、头像
func (uc *UserUseCase) UpdateProfile(ctx context.Context, username string, patch ProfilePatch) (*domain.User, error) {
	u, err := uc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if patch.Nickname != nil {
		if strings.TrimSpace(*patch.Nickname) == "" {
			return nil, ErrMissingField("nickname")
		}
		u.Nickname = *patch.Nickname
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	if err := uc.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin 配置了管理员账号且尚不存在时创建
func (uc *UserUseCase) EnsureAdmin(ctx context.Context) error {
	name, password := uc.admin[0], uc.admin[1]
	if name == "" || password == "" {
		return nil
	}
	_, err := uc.repo.GetUserByUsername(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}
	if _, err := uc.Register(ctx, name, password); err != nil {
		return err
	}
	uc.log.WithContext(ctx).Infof("admin user created: %s", name)
	return nil
}
