package biz

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// Material 笔记素材
type Material struct {
	Title    string
	Body     string
	Link     string
	ImageURL string
}

// MaterialSource 按主题寻找笔记素材
type MaterialSource interface {
	Find(ctx context.Context, theme string, n int) ([]Material, error)
}

// ContentAssistant 外部内容生成协作者（AI 调整、文案生成）
type ContentAssistant interface {
	// AdjustContent 按用户给出的方向调整笔记内容
	AdjustContent(ctx context.Context, content domain.PlatformContent, direction string) (domain.PlatformContent, error)
	// GenerateMoment 生成一条朋友圈文案
	GenerateMoment(ctx context.Context, hint string) (string, error)
}

// Notifier 计划确认后的通知
type Notifier interface {
	PlanConfirmed(ctx context.Context, plan *domain.Plan, account *domain.Account) error
}
