package data

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type contentRepo struct {
	s *memStore
}

// NewContentRepo 内容库仓库
func NewContentRepo(data *Data) biz.ContentRepo {
	return &contentRepo{s: data.mem}
}

func (r *contentRepo) ListContents(ctx context.Context) ([]*domain.ContentItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.ContentItem, 0, len(r.s.contentOrder))
	for _, id := range r.s.contentOrder {
		out = append(out, r.s.contents[id].Clone())
	}
	return out, nil
}

func (r *contentRepo) GetContent(ctx context.Context, id string) (*domain.ContentItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contents[id]
	if !ok {
		return nil, biz.ErrContentNotFound(id)
	}
	return c.Clone(), nil
}

func (r *contentRepo) SaveContents(ctx context.Context, items ...*domain.ContentItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range items {
		if _, ok := r.s.contents[c.ID]; !ok {
			r.s.contentOrder = append(r.s.contentOrder, c.ID)
		}
		r.s.contents[c.ID] = c.Clone()
	}
	return nil
}

func (r *contentRepo) DeleteContent(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contents[id]; !ok {
		return biz.ErrContentNotFound(id)
	}
	delete(r.s.contents, id)
	r.s.contentOrder = removeID(r.s.contentOrder, id)
	return nil
}
