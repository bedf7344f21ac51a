package domain

import (
	"slices"
	"time"
)

// ContentStatus 内容库条目状态
type ContentStatus string

const (
	ContentPublished ContentStatus = "published"
	ContentPending   ContentStatus = "pending"
	ContentDraft     ContentStatus = "draft"
)

// ContentItem 内容库中的一条内容
type ContentItem struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Content     string        `json:"content" yaml:"content"`
	ImageURL    string        `json:"image_url" yaml:"image_url"`
	Status      ContentStatus `json:"status" yaml:"status"`
	PublishTime *time.Time    `json:"publish_time,omitempty" yaml:"publish_time,omitempty"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Views       int           `json:"views" yaml:"views"`
	Likes       int           `json:"likes" yaml:"likes"`
	Favorites   int           `json:"favorites" yaml:"favorites"`
	Comments    int           `json:"comments" yaml:"comments"`
	ContentType ContentType   `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Tone        Tone          `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// Clone 深拷贝
func (c *ContentItem) Clone() *ContentItem {
	cp := *c
	cp.Tags = slices.Clone(c.Tags)
	if c.PublishTime != nil {
		t := *c.PublishTime
		cp.PublishTime = &t
	}
	return &cp
}
