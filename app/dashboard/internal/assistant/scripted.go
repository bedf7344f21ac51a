// Package assistant 内容协作者的实现：固定话术与基于大模型的版本
package assistant

import (
	"context"
	"fmt"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// MomentSample 固定话术版本生成的朋友圈文案
const MomentSample = "这是一个AI生成的示例文案：今天的阳光真好，和朋友们分享这美好的时光。☀️ #生活记录 #美好时光"

// Scripted 不依赖外部服务的固定话术实现
type Scripted struct{}

// NewScripted 固定话术实现
func NewScripted() *Scripted {
	return &Scripted{}
}

// AdjustContent 在正文后追加调整说明
func (Scripted) AdjustContent(ctx context.Context, c domain.PlatformContent, direction string) (domain.PlatformContent, error) {
	c.Content = fmt.Sprintf("%s\n\n[根据\"%s\"的方向调整后的内容]", c.Content, direction)
	return c, nil
}

// GenerateMoment 返回固定文案
func (Scripted) GenerateMoment(ctx context.Context, hint string) (string, error) {
	return MomentSample, nil
}
