package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

const (
	maxRetries = 3
	baseDelay  = 2 * time.Second
)

// LLM 通过 OpenAI 兼容接口调整笔记、生成文案
type LLM struct {
	cm      model.BaseChatModel
	limiter *rate.Limiter
	log     *log.Helper
	delay   time.Duration
}

// NewLLM 根据配置初始化 ChatModel
func NewLLM(ctx context.Context, c *conf.Assistant, logger log.Logger) (*LLM, error) {
	if c == nil || c.Llm == nil {
		return nil, fmt.Errorf("assistant.llm is not configured")
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: c.Llm.BaseUrl,
		APIKey:  c.Llm.ApiKey,
		Model:   c.Llm.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	qps := int(c.Qps)
	if qps <= 0 {
		qps = 1
	}
	return NewLLMWithModel(cm, rate.NewLimiter(rate.Limit(qps), qps), logger), nil
}

// NewLLMWithModel 使用已有的 ChatModel
func NewLLMWithModel(cm model.BaseChatModel, limiter *rate.Limiter, logger log.Logger) *LLM {
	return &LLM{
		cm:      cm,
		limiter: limiter,
		log:     log.NewHelper(log.With(logger, "module", "assistant/llm")),
		delay:   baseDelay,
	}
}

// AdjustContent 按方向改写标题与正文，配图不变
func (l *LLM) AdjustContent(ctx context.Context, c domain.PlatformContent, direction string) (domain.PlatformContent, error) {
	prompt := fmt.Sprintf(`你是一名小红书运营编辑。请按照用户给出的调整方向改写下面这篇笔记。
调整方向：%s

原标题：%s
原正文：
%s

请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记：
{"title": "改写后的标题", "content": "改写后的正文"}`, direction, c.Title, c.Content)

	out, err := l.generate(ctx, "你是一个 JSON 生成器。请只输出 JSON 字符串。", prompt)
	if err != nil {
		return c, err
	}
	var adjusted struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(stripFence(out)), &adjusted); err != nil {
		return c, fmt.Errorf("json unmarshal: %w", err)
	}
	if adjusted.Title != "" {
		c.Title = adjusted.Title
	}
	if adjusted.Content != "" {
		c.Content = adjusted.Content
	}
	return c, nil
}

// GenerateMoment 生成一条朋友圈文案
func (l *LLM) GenerateMoment(ctx context.Context, hint string) (string, error) {
	prompt := "请写一条适合发朋友圈的简短文案（60字以内），带两个话题标签。"
	if hint = strings.TrimSpace(hint); hint != "" {
		prompt += "\n主题：" + hint
	}
	out, err := l.generate(ctx, "你是一名社交媒体文案写手，只输出文案本身。", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stripFence(out)), nil
}

// generate 限流后调用模型，遇到 429 指数退避重试
func (l *LLM) generate(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := l.limiter.Wait(ctx); err != nil {
			return "", err
		}
		resp, err := l.cm.Generate(ctx, []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(user),
		})
		if err == nil {
			return resp.Content, nil
		}
		if !isRateLimited(err) {
			return "", err
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		wait := l.delay * time.Duration(1<<i)
		l.log.WithContext(ctx).Warnf("rate limited, retry in %s: %v", wait, err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
