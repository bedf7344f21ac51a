package biz

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// MomentRepo 朋友圈仓库接口
type MomentRepo interface {
	ListMoments(ctx context.Context) ([]*domain.Moment, error)
	GetMoment(ctx context.Context, id string) (*domain.Moment, error)
	SaveMoment(ctx context.Context, m *domain.Moment) error
	DeleteMoment(ctx context.Context, id string) error
}

// MomentRequest 添加/修改定时朋友圈的表单
type MomentRequest struct {
	ImageURL          string
	Content           string
	ScheduledTime     time.Time
	SyncToXiaohongshu bool
}

func (r *MomentRequest) validate() error {
	if strings.TrimSpace(r.ImageURL) == "" {
		return ErrMissingField("image_url")
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrMissingField("content")
	}
	if r.ScheduledTime.IsZero() {
		return ErrMissingField("scheduled_time")
	}
	return nil
}

// MomentUseCase 朋友圈定时发布业务逻辑
type MomentUseCase struct {
	repo      MomentRepo
	assistant ContentAssistant
	log       *log.Helper
}

// NewMomentUseCase 创建朋友圈业务逻辑实例
func NewMomentUseCase(repo MomentRepo, assistant ContentAssistant, logger log.Logger) *MomentUseCase {
	return &MomentUseCase{repo: repo, assistant: assistant, log: log.NewHelper(log.With(logger, "module", "biz/moment"))}
}

// Create 新建一条待发送的朋友圈
func (uc *MomentUseCase) Create(ctx context.Context, req *MomentRequest) (*domain.Moment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	m := &domain.Moment{
		ID:                uuid.NewString(),
		ImageURL:          req.ImageURL,
		Content:           req.Content,
		Status:            domain.MomentPending,
		ScheduledTime:     req.ScheduledTime,
		SyncToXiaohongshu: req.SyncToXiaohongshu,
	}
	if err := uc.repo.SaveMoment(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List 按预计发送时间排序
func (uc *MomentUseCase) List(ctx context.Context) ([]*domain.Moment, error) {
	ms, err := uc.repo.ListMoments(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].ScheduledTime.Before(ms[j].ScheduledTime) })
	return ms, nil
}

// Update 修改内容和时间，状态不变
func (uc *MomentUseCase) Update(ctx context.Context, id string, req *MomentRequest) (*domain.Moment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	m, err := uc.repo.GetMoment(ctx, id)
	if err != nil {
		return nil, err
	}
	m.ImageURL = req.ImageURL
	m.Content = req.Content
	m.ScheduledTime = req.ScheduledTime
	m.SyncToXiaohongshu = req.SyncToXiaohongshu
	if err := uc.repo.SaveMoment(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarkSent 标记为已发送
func (uc *MomentUseCase) MarkSent(ctx context.Context, id string) (*domain.Moment, error) {
	m, err := uc.repo.GetMoment(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Status = domain.MomentSent
	if err := uc.repo.SaveMoment(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete 删除
func (uc *MomentUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.DeleteMoment(ctx, id)
}

// GenerateContent 由内容协作者生成文案
func (uc *MomentUseCase) GenerateContent(ctx context.Context, hint string) (string, error) {
	text, err := uc.assistant.GenerateMoment(ctx, hint)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("generate moment content failed: %v", err)
		return "", err
	}
	return text, nil
}
