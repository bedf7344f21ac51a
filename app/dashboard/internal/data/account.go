package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type accountRepo struct {
	s *memStore
}

// NewAccountRepo 账号仓库
func NewAccountRepo(data *Data) biz.AccountRepo {
	return &accountRepo{s: data.mem}
}

func (r *accountRepo) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Account, 0, len(r.s.accountOrder))
	for _, id := range r.s.accountOrder {
		a := *r.s.accounts[id]
		out = append(out, &a)
	}
	return out, nil
}

func (r *accountRepo) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, biz.ErrAccountNotFound(id)
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepo) CreateAccount(ctx context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; ok {
		return errors.Conflict("ACCOUNT_EXISTS", "account already exists").WithMetadata(map[string]string{"id": a.ID})
	}
	cp := *a
	r.s.accounts[a.ID] = &cp
	r.s.accountOrder = append(r.s.accountOrder, a.ID)
	return nil
}
