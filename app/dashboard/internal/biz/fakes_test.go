package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// fakePlanRepo 模拟计划仓库
type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]*domain.Plan
	order []string
}

func newFakePlanRepo(plans ...*domain.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: map[string]*domain.Plan{}}
	for _, p := range plans {
		_ = r.SavePlan(context.Background(), p)
	}
	return r
}

func (r *fakePlanRepo) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Plan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plans[id].Clone())
	}
	return out, nil
}

func (r *fakePlanRepo) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, ErrPlanNotFound(id)
	}
	return p.Clone(), nil
}

func (r *fakePlanRepo) SavePlan(ctx context.Context, p *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.plans[p.ID] = p.Clone()
	return nil
}

func (r *fakePlanRepo) DeletePlan(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return ErrPlanNotFound(id)
	}
	delete(r.plans, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakePlanRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans)
}

// fakeAccountRepo 模拟账号仓库
type fakeAccountRepo struct {
	accounts []*domain.Account
}

func (r *fakeAccountRepo) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return r.accounts, nil
}

func (r *fakeAccountRepo) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrAccountNotFound(id)
}

func (r *fakeAccountRepo) CreateAccount(ctx context.Context, a *domain.Account) error {
	r.accounts = append(r.accounts, a)
	return nil
}

// fakeNotifier 记录通知
type fakeNotifier struct {
	mu    sync.Mutex
	plans []string
	err   error
}

func (n *fakeNotifier) PlanConfirmed(ctx context.Context, p *domain.Plan, a *domain.Account) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plans = append(n.plans, p.ID)
	return n.err
}

// fakeAssistant 固定追加方向文字
type fakeAssistant struct {
	err     error
	entered chan struct{}
	block   chan struct{}
}

func (a *fakeAssistant) AdjustContent(ctx context.Context, c domain.PlatformContent, direction string) (domain.PlatformContent, error) {
	if a.entered != nil {
		close(a.entered)
	}
	if a.block != nil {
		<-a.block
	}
	if a.err != nil {
		return c, a.err
	}
	c.Content += "|" + direction
	return c, nil
}

func (a *fakeAssistant) GenerateMoment(ctx context.Context, hint string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return "moment:" + hint, nil
}

// fakeMaterials 按主题返回固定素材
type fakeMaterials struct {
	mu     sync.Mutex
	calls  int
	err    error
	block  bool
	result []Material
}

func (m *fakeMaterials) Find(ctx context.Context, theme string, n int) ([]Material, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	out := make([]Material, n)
	for i := range out {
		out[i] = Material{Title: fmt.Sprintf("%s 素材 %d", theme, i+1), Body: "素材正文"}
	}
	return out, nil
}

// fakeContentRepo 模拟内容库
type fakeContentRepo struct {
	items []*domain.ContentItem
	err   error
}

func (r *fakeContentRepo) ListContents(ctx context.Context) ([]*domain.ContentItem, error) {
	out := make([]*domain.ContentItem, len(r.items))
	for i, it := range r.items {
		out[i] = it.Clone()
	}
	return out, nil
}

func (r *fakeContentRepo) GetContent(ctx context.Context, id string) (*domain.ContentItem, error) {
	for _, it := range r.items {
		if it.ID == id {
			return it.Clone(), nil
		}
	}
	return nil, ErrContentNotFound(id)
}

func (r *fakeContentRepo) SaveContents(ctx context.Context, items ...*domain.ContentItem) error {
	if r.err != nil {
		return r.err
	}
outer:
	for _, c := range items {
		for i, it := range r.items {
			if it.ID == c.ID {
				r.items[i] = c.Clone()
				continue outer
			}
		}
		r.items = append(r.items, c.Clone())
	}
	return nil
}

func (r *fakeContentRepo) DeleteContent(ctx context.Context, id string) error {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrContentNotFound(id)
}

// fakeMomentRepo 模拟朋友圈仓库
type fakeMomentRepo struct {
	moments map[string]*domain.Moment
}

func (r *fakeMomentRepo) ListMoments(ctx context.Context) ([]*domain.Moment, error) {
	var out []*domain.Moment
	for _, m := range r.moments {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMomentRepo) GetMoment(ctx context.Context, id string) (*domain.Moment, error) {
	m, ok := r.moments[id]
	if !ok {
		return nil, ErrMomentNotFound(id)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMomentRepo) SaveMoment(ctx context.Context, m *domain.Moment) error {
	if r.moments == nil {
		r.moments = map[string]*domain.Moment{}
	}
	cp := *m
	r.moments[m.ID] = &cp
	return nil
}

func (r *fakeMomentRepo) DeleteMoment(ctx context.Context, id string) error {
	if _, ok := r.moments[id]; !ok {
		return ErrMomentNotFound(id)
	}
	delete(r.moments, id)
	return nil
}

// fakeUserRepo 模拟用户仓库
type fakeUserRepo struct {
	users map[string]*domain.User
	next  int
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	if r.users == nil {
		r.users = map[string]*domain.User{}
	}
	if _, ok := r.users[u.Username]; ok {
		return stderrors.New("duplicate username")
	}
	r.next++
	u.ID = r.next
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound()
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, u *domain.User) error {
	if _, ok := r.users[u.Username]; !ok {
		return ErrUserNotFound()
	}
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// seqIDs 生成可预测的 ID
func seqIDs(prefix string) func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestPlanUseCase(repo PlanRepo, accounts AccountRepo, notifier Notifier) *PlanUseCase {
	uc := NewPlanUseCase(repo, accounts, notifier, log.DefaultLogger)
	uc.newID = seqIDs("id")
	uc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }
	return uc
}

func reasonOf(err error) string {
	return errors.Reason(err)
}
