package domain

import "time"

// MomentStatus 朋友圈发送状态
type MomentStatus string

const (
	MomentPending MomentStatus = "pending"
	MomentSent    MomentStatus = "sent"
)

// Moment 定时朋友圈
type Moment struct {
	ID                string       `json:"id"`
	ImageURL          string       `json:"image_url"`
	Content           string       `json:"content"`
	Status            MomentStatus `json:"status"`
	ScheduledTime     time.Time    `json:"scheduled_time"`
	SyncToXiaohongshu bool         `json:"sync_to_xiaohongshu"`
}
