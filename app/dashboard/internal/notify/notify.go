// Package notify 计划确认后的通知
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/slack-go/slack"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// Summary 计划确认通知的文字内容
func Summary(p *domain.Plan, a *domain.Account) string {
	var sb strings.Builder
	name := p.Name
	if name == "" {
		name = p.ID
	}
	fmt.Fprintf(&sb, "发布计划「%s」已确认执行\n", name)
	fmt.Fprintf(&sb, "时间：%s 至 %s，共 %d 篇\n", domain.FormatDate(p.StartDate), domain.FormatDate(p.EndDate), p.Count)
	if a != nil {
		fmt.Fprintf(&sb, "账号：%s\n", a.Nickname)
	}
	for i, n := range p.Notes {
		fmt.Fprintf(&sb, "%s  %s\n", domain.FormatDate(p.NoteDate(i)), n.Effective(domain.PlatformXiaohongshu).Title)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Log 只写日志
type Log struct {
	log *log.Helper
}

// NewLog 日志通知
func NewLog(logger log.Logger) *Log {
	return &Log{log: log.NewHelper(log.With(logger, "module", "notify"))}
}

// PlanConfirmed 记录确认信息
func (l *Log) PlanConfirmed(ctx context.Context, p *domain.Plan, a *domain.Account) error {
	l.log.WithContext(ctx).Info(Summary(p, a))
	return nil
}

// Slack 发送到 Slack 频道
type Slack struct {
	api     *slack.Client
	channel string
}

// NewSlack opts 透传给 slack.New，测试中用于替换 API 地址
func NewSlack(token, channel string, opts ...slack.Option) *Slack {
	return &Slack{api: slack.New(token, opts...), channel: channel}
}

// PlanConfirmed 以 section block 发送确认信息
func (s *Slack) PlanConfirmed(ctx context.Context, p *domain.Plan, a *domain.Account) error {
	text := Summary(p, a)
	block := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
	_, _, err := s.api.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(block),
	)
	if err != nil {
		return fmt.Errorf("slack post message: %w", err)
	}
	return nil
}
