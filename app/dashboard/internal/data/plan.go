package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// NewPlanRepo postgres 模式下落库，否则使用内存
func NewPlanRepo(data *Data, logger log.Logger) biz.PlanRepo {
	if data.db != nil {
		return &pgPlanRepo{db: data.db, log: log.NewHelper(log.With(logger, "module", "data/plan"))}
	}
	return &memPlanRepo{s: data.mem}
}

type memPlanRepo struct {
	s *memStore
}

func (r *memPlanRepo) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Plan, 0, len(r.s.planOrder))
	for _, id := range r.s.planOrder {
		out = append(out, r.s.plans[id].Clone())
	}
	return out, nil
}

func (r *memPlanRepo) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, biz.ErrPlanNotFound(id)
	}
	return p.Clone(), nil
}

func (r *memPlanRepo) SavePlan(ctx context.Context, p *domain.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[p.ID]; !ok {
		r.s.planOrder = append(r.s.planOrder, p.ID)
	}
	r.s.plans[p.ID] = p.Clone()
	return nil
}

func (r *memPlanRepo) DeletePlan(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[id]; !ok {
		return biz.ErrPlanNotFound(id)
	}
	delete(r.s.plans, id)
	r.s.planOrder = removeID(r.s.planOrder, id)
	return nil
}
