package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/lib/pq"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

func errUserExists(username string) error {
	return kerrors.Conflict("USER_EXISTS", "username already taken").WithMetadata(map[string]string{"username": username})
}

// NewUserRepo postgres 模式下落库，否则使用内存
func NewUserRepo(data *Data, logger log.Logger) biz.UserRepo {
	if data.db != nil {
		return &pgUserRepo{db: data.db, log: log.NewHelper(log.With(logger, "module", "data/user"))}
	}
	return &memUserRepo{s: data.mem}
}

type memUserRepo struct {
	s *memStore
}

func (r *memUserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Username]; ok {
		return errUserExists(u.Username)
	}
	r.s.userID++
	u.ID = r.s.userID
	cp := *u
	r.s.users[u.Username] = &cp
	return nil
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[username]
	if !ok {
		return nil, biz.ErrUserNotFound()
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateUser(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.Username]
	if !ok {
		return biz.ErrUserNotFound()
	}
	cur.Nickname = u.Nickname
	cur.Avatar = u.Avatar
	return nil
}

type pgUserRepo struct {
	db  *sql.DB
	log *log.Helper
}

func (r *pgUserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, nickname, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		u.Username, u.PasswordHash, u.Nickname, u.Avatar).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errUserExists(u.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, nickname, avatar FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Nickname, &u.Avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, biz.ErrUserNotFound()
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *pgUserRepo) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET nickname = $1, avatar = $2 WHERE id = $3`, u.Nickname, u.Avatar, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return biz.ErrUserNotFound()
	}
	r.log.WithContext(ctx).Infof("user profile updated: %s", u.Username)
	return nil
}
