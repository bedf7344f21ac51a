package domain

import (
	"fmt"
	"slices"
	"time"
)

// ContentType 笔记内容类型
type ContentType string

const (
	ContentProductIntro ContentType = "产品介绍"
	ContentExperience   ContentType = "使用体验"
	ContentLifeRecord   ContentType = "生活记录"
	ContentShopVisit    ContentType = "探店安利"
	ContentKnowHow      ContentType = "干货分享"
)

// ContentTypes 全部内容类型，顺序固定
var ContentTypes = []ContentType{ContentProductIntro, ContentExperience, ContentLifeRecord, ContentShopVisit, ContentKnowHow}

// Valid 空值视为未设置
func (c ContentType) Valid() bool {
	return c == "" || slices.Contains(ContentTypes, c)
}

// Tone 笔记语气
type Tone string

const (
	ToneCasual       Tone = "轻松随意"
	ToneProfessional Tone = "专业正式"
	ToneLiterary     Tone = "感性文艺"
	ToneHumorous     Tone = "幽默诙谐"
)

// Tones 全部语气，顺序固定
var Tones = []Tone{ToneCasual, ToneProfessional, ToneLiterary, ToneHumorous}

// Valid 空值视为未设置
func (t Tone) Valid() bool {
	return t == "" || slices.Contains(Tones, t)
}

// Platform 发布目标平台
type Platform string

const (
	PlatformXiaohongshu Platform = "xiaohongshu"
	PlatformWechat      Platform = "wechat"
)

// ParsePlatform 空字符串表示不指定平台
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case "", PlatformXiaohongshu, PlatformWechat:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// PlatformContent 某个平台的覆盖内容
type PlatformContent struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Platforms 固定两个平台的覆盖块
type Platforms struct {
	Xiaohongshu *PlatformContent `json:"xiaohongshu,omitempty" yaml:"xiaohongshu,omitempty"`
	Wechat      *PlatformContent `json:"wechat,omitempty" yaml:"wechat,omitempty"`
}

// Get 返回指定平台的覆盖，未设置时为 nil
func (p *Platforms) Get(platform Platform) *PlatformContent {
	if p == nil {
		return nil
	}
	switch platform {
	case PlatformXiaohongshu:
		return p.Xiaohongshu
	case PlatformWechat:
		return p.Wechat
	}
	return nil
}

// Set 只写入指定平台，另一个平台保持不变
func (p *Platforms) Set(platform Platform, c PlatformContent) {
	switch platform {
	case PlatformXiaohongshu:
		p.Xiaohongshu = &c
	case PlatformWechat:
		p.Wechat = &c
	}
}

// Note 一篇笔记
type Note struct {
	ID            string      `json:"id" yaml:"id"`
	Title         string      `json:"title" yaml:"title"`
	Content       string      `json:"content" yaml:"content"`
	ImageURL      string      `json:"image_url" yaml:"image_url"`
	ContentType   ContentType `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Tone          Tone        `json:"tone,omitempty" yaml:"tone,omitempty"`
	Tags          []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	ScheduledTime *time.Time  `json:"scheduled_time,omitempty" yaml:"scheduled_time,omitempty"`
	Platforms     *Platforms  `json:"platforms,omitempty" yaml:"platforms,omitempty"`
}

// Effective 返回笔记在某个平台上实际展示的内容，逐字段取值：覆盖块里非空的字段优先，其余用基础字段
func (n *Note) Effective(platform Platform) PlatformContent {
	out := PlatformContent{Title: n.Title, Content: n.Content, ImageURL: n.ImageURL}
	o := n.Platforms.Get(platform)
	if o == nil {
		return out
	}
	if o.Title != "" {
		out.Title = o.Title
	}
	if o.Content != "" {
		out.Content = o.Content
	}
	if o.ImageURL != "" {
		out.ImageURL = o.ImageURL
	}
	return out
}

// Clone 深拷贝
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = slices.Clone(n.Tags)
	if n.ScheduledTime != nil {
		t := *n.ScheduledTime
		c.ScheduledTime = &t
	}
	if n.Platforms != nil {
		p := Platforms{}
		if n.Platforms.Xiaohongshu != nil {
			x := *n.Platforms.Xiaohongshu
			p.Xiaohongshu = &x
		}
		if n.Platforms.Wechat != nil {
			w := *n.Platforms.Wechat
			p.Wechat = &w
		}
		c.Platforms = &p
	}
	return &c
}

// Plan 发布计划
//
// Count 是计划当前的笔记数，所有修改路径都保持 Count == len(Notes)；
// TargetCount 是创建时的目标篇数，此后不再变化。
type Plan struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	StartDate   time.Time `json:"start_date" yaml:"start_date"`
	EndDate     time.Time `json:"end_date" yaml:"end_date"`
	Count       int       `json:"count" yaml:"count"`
	TargetCount int       `json:"target_count" yaml:"target_count"`
	AccountID   string    `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Notes       []*Note   `json:"notes" yaml:"notes"`
	Confirmed   bool      `json:"confirmed" yaml:"confirmed"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NoteDate 第 i 篇笔记的推算日期 = 开始日期 + i 天，不会截断到结束日期
func (p *Plan) NoteDate(i int) time.Time {
	return AddDays(p.StartDate, i)
}

// Covers 日期是否落在 [StartDate, EndDate] 闭区间内
func (p *Plan) Covers(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(DateOf(p.StartDate)) && !d.After(DateOf(p.EndDate))
}

// NoteIndex 返回笔记下标，不存在时为 -1
func (p *Plan) NoteIndex(noteID string) int {
	return slices.IndexFunc(p.Notes, func(n *Note) bool { return n.ID == noteID })
}

// Clone 深拷贝，计划独占自己的笔记
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Notes = make([]*Note, len(p.Notes))
	for i, n := range p.Notes {
		c.Notes[i] = n.Clone()
	}
	return &c
}
