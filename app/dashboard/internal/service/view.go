package service

import (
	"time"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// NoteView 笔记及其推算日期
type NoteView struct {
	*domain.Note
	Date string `json:"date"`
}

// PlanView 计划，日期为 YYYY-MM-DD
type PlanView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Count       int        `json:"count"`
	TargetCount int        `json:"target_count"`
	AccountID   string     `json:"account_id,omitempty"`
	Confirmed   bool       `json:"confirmed"`
	CreatedAt   time.Time  `json:"created_at"`
	Notes       []NoteView `json:"notes"`
}

func toPlanView(p *domain.Plan) *PlanView {
	v := &PlanView{
		ID:          p.ID,
		Name:        p.Name,
		StartDate:   domain.FormatDate(p.StartDate),
		EndDate:     domain.FormatDate(p.EndDate),
		Count:       p.Count,
		TargetCount: p.TargetCount,
		AccountID:   p.AccountID,
		Confirmed:   p.Confirmed,
		CreatedAt:   p.CreatedAt,
		Notes:       make([]NoteView, len(p.Notes)),
	}
	for i, n := range p.Notes {
		v.Notes[i] = NoteView{Note: n, Date: domain.FormatDate(p.NoteDate(i))}
	}
	return v
}

// ScheduledView 日历格、时间线中的一项，展示内容已按平台取值
type ScheduledView struct {
	PlanID      string    `json:"plan_id"`
	PlanName    string    `json:"plan_name,omitempty"`
	AccountID   string    `json:"account_id,omitempty"`
	Index       int       `json:"index"`
	Date        string    `json:"date"`
	NoteID      string    `json:"note_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	Tags        []string  `json:"tags,omitempty"`
	PublishTime time.Time `json:"publish_time"`
}

func toScheduledViews(items []biz.ScheduledNote, platform domain.Platform) []ScheduledView {
	out := make([]ScheduledView, len(items))
	for i, it := range items {
		eff := it.Note.Effective(platform)
		out[i] = ScheduledView{
			PlanID:      it.PlanID,
			PlanName:    it.PlanName,
			AccountID:   it.AccountID,
			Index:       it.Index,
			Date:        it.DateKey(),
			NoteID:      it.Note.ID,
			Title:       eff.Title,
			Content:     eff.Content,
			ImageURL:    eff.ImageURL,
			Tags:        it.Note.Tags,
			PublishTime: it.PublishTime(),
		}
	}
	return out
}

// DayView 一天的日程
type DayView struct {
	Date  string          `json:"date"`
	Notes []ScheduledView `json:"notes"`
}

func toDayViews(groups []biz.DateGroup, platform domain.Platform) []DayView {
	out := make([]DayView, len(groups))
	for i, g := range groups {
		out[i] = DayView{Date: g.Date, Notes: toScheduledViews(g.Notes, platform)}
	}
	return out
}

// parseDate 空串返回零值，交给业务层按缺失处理
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.BadRequest(biz.ReasonInvalidDateRange, field+" must be YYYY-MM-DD").
			WithMetadata(map[string]string{field: s})
	}
	return t, nil
}

func parsePlatform(s string) (domain.Platform, error) {
	p, err := domain.ParsePlatform(s)
	if err != nil {
		return "", errors.BadRequest(biz.ReasonInvalidPlatform, err.Error())
	}
	return p, nil
}

// parseTime 接受 RFC3339 或 "YYYY-MM-DD HH:MM:SS"（UTC）
func parseTime(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateTime, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.BadRequest(biz.ReasonInvalidArgument, field+" must be RFC3339 or YYYY-MM-DD HH:MM:SS")
	}
	return t, nil
}
