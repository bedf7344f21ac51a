package biz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// ContentRepo 内容库仓库接口
type ContentRepo interface {
	ListContents(ctx context.Context) ([]*domain.ContentItem, error)
	GetContent(ctx context.Context, id string) (*domain.ContentItem, error)
	SaveContents(ctx context.Context, items ...*domain.ContentItem) error
	DeleteContent(ctx context.Context, id string) error
}

// ContentFilter 内容列表筛选
type ContentFilter struct {
	// Status 为空或 "all" 表示不过滤
	Status string
	// From/To 都设置时只保留发布时间严格在两者之间的内容，没有发布时间的内容总是保留
	From, To time.Time
	Tag      string
}

// BatchRequest 批量生成草稿
type BatchRequest struct {
	Theme       string
	Count       int
	ContentType domain.ContentType
	Tone        domain.Tone
}

// Validate 校验批量生成参数
func (r *BatchRequest) Validate() error {
	if r.Count < 1 || r.Count > maxPlanCount {
		return errors.BadRequest(ReasonInvalidCount, fmt.Sprintf("count must be between 1 and %d", maxPlanCount))
	}
	if !r.ContentType.Valid() || !r.Tone.Valid() {
		return errors.BadRequest(ReasonInvalidArgument, "unknown content type or tone")
	}
	return nil
}

// ContentUseCase 内容管理业务逻辑
type ContentUseCase struct {
	repo ContentRepo
	log  *log.Helper
	now  func() time.Time
	rand func(n int) int
}

// NewContentUseCase 创建内容管理业务逻辑实例
func NewContentUseCase(repo ContentRepo, logger log.Logger) *ContentUseCase {
	return &ContentUseCase{
		repo: repo,
		log:  log.NewHelper(log.With(logger, "module", "biz/content")),
		now:  time.Now,
		rand: rand.IntN,
	}
}

// List 先按状态、再按日期、最后按标签过滤，保持仓库顺序
func (uc *ContentUseCase) List(ctx context.Context, f ContentFilter) ([]*domain.ContentItem, error) {
	items, err := uc.repo.ListContents(ctx)
	if err != nil {
		return nil, err
	}
	out := items[:0:0]
	for _, it := range items {
		if f.Status != "" && f.Status != "all" && string(it.Status) != f.Status {
			continue
		}
		if !f.From.IsZero() && !f.To.IsZero() && it.PublishTime != nil {
			if !it.PublishTime.After(f.From) || !it.PublishTime.Before(f.To) {
				continue
			}
		}
		if f.Tag != "" && !slices.Contains(it.Tags, f.Tag) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// CalendarFor 发布时间落在当天的内容
func (uc *ContentUseCase) CalendarFor(ctx context.Context, date time.Time) ([]*domain.ContentItem, error) {
	items, err := uc.repo.ListContents(ctx)
	if err != nil {
		return nil, err
	}
	key := domain.FormatDate(date)
	var out []*domain.ContentItem
	for _, it := range items {
		if it.PublishTime != nil && domain.FormatDate(*it.PublishTime) == key {
			out = append(out, it)
		}
	}
	return out, nil
}

// Create 新建一条内容
func (uc *ContentUseCase) Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	if err := validateContent(item); err != nil {
		return nil, err
	}
	c := item.Clone()
	c.ID = uuid.NewString()
	if c.Status == "" {
		c.Status = domain.ContentDraft
	}
	if err := uc.repo.SaveContents(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update 整条替换
func (uc *ContentUseCase) Update(ctx context.Context, id string, item *domain.ContentItem) (*domain.ContentItem, error) {
	if err := validateContent(item); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetContent(ctx, id); err != nil {
		return nil, err
	}
	c := item.Clone()
	c.ID = id
	if err := uc.repo.SaveContents(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 删除内容
func (uc *ContentUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.DeleteContent(ctx, id)
}

// CreateBatch 按主题生成一批草稿，未指定类型或语气时随机选取
func (uc *ContentUseCase) CreateBatch(ctx context.Context, req *BatchRequest) ([]*domain.ContentItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	theme := strings.TrimSpace(req.Theme)
	label := theme
	if label == "" {
		label = "主题"
	}
	base := uc.now().UnixMilli()
	items := make([]*domain.ContentItem, req.Count)
	for i := range items {
		ct, tone := req.ContentType, req.Tone
		if ct == "" {
			ct = domain.ContentTypes[uc.rand(len(domain.ContentTypes))]
		}
		if tone == "" {
			tone = domain.Tones[uc.rand(len(domain.Tones))]
		}
		it := &domain.ContentItem{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("%s %d", label, i+1),
			Content:     fmt.Sprintf("这是一篇关于%s的笔记，风格%s...", label, tone),
			ImageURL:    fmt.Sprintf(placeholderFmt, base+int64(i)),
			Status:      domain.ContentDraft,
			ContentType: ct,
			Tone:        tone,
		}
		if theme != "" {
			it.Tags = []string{theme}
		}
		items[i] = it
	}
	if err := uc.repo.SaveContents(ctx, items...); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("content batch created: theme=%q count=%d", theme, len(items))
	return items, nil
}

func validateContent(c *domain.ContentItem) error {
	if c == nil || strings.TrimSpace(c.Title) == "" {
		return ErrMissingField("title")
	}
	switch c.Status {
	case "", domain.ContentDraft, domain.ContentPending, domain.ContentPublished:
	default:
		return errors.BadRequest(ReasonInvalidArgument, "unknown status "+string(c.Status))
	}
	if !c.ContentType.Valid() || !c.Tone.Valid() {
		return errors.BadRequest(ReasonInvalidArgument, "unknown content type or tone")
	}
	return nil
}
