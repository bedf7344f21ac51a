package data

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type momentRepo struct {
	s *memStore
}

// NewMomentRepo 朋友圈仓库
func NewMomentRepo(data *Data) biz.MomentRepo {
	return &momentRepo{s: data.mem}
}

func (r *momentRepo) ListMoments(ctx context.Context) ([]*domain.Moment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Moment, 0, len(r.s.momentOrder))
	for _, id := range r.s.momentOrder {
		m := *r.s.moments[id]
		out = append(out, &m)
	}
	return out, nil
}

func (r *momentRepo) GetMoment(ctx context.Context, id string) (*domain.Moment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.moments[id]
	if !ok {
		return nil, biz.ErrMomentNotFound(id)
	}
	cp := *m
	return &cp, nil
}

func (r *momentRepo) SaveMoment(ctx context.Context, m *domain.Moment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.moments[m.ID]; !ok {
		r.s.momentOrder = append(r.s.momentOrder, m.ID)
	}
	cp := *m
	r.s.moments[m.ID] = &cp
	return nil
}

func (r *momentRepo) DeleteMoment(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.moments[id]; !ok {
		return biz.ErrMomentNotFound(id)
	}
	delete(r.s.moments, id)
	r.s.momentOrder = removeID(r.s.momentOrder, id)
	return nil
}
