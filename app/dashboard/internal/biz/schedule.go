package biz

import (
	"context"
	"sort"
	"time"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// ScheduledNote 带推算日期的笔记
type ScheduledNote struct {
	PlanID    string
	PlanName  string
	AccountID string
	Index     int
	Date      time.Time
	Note      *domain.Note
}

// DateKey ISO 日期键
func (s ScheduledNote) DateKey() string {
	return domain.FormatDate(s.Date)
}

// PublishTime 有定时时间用定时时间，否则用推算日期
func (s ScheduledNote) PublishTime() time.Time {
	if s.Note.ScheduledTime != nil {
		return *s.Note.ScheduledTime
	}
	return s.Date
}

// DateGroup 同一天的笔记
type DateGroup struct {
	Date  string
	Notes []ScheduledNote
}

// DateGroups 按日期分组，Order 记录日期首次出现的顺序
type DateGroups struct {
	Order  []string
	ByDate map[string][]ScheduledNote
}

// List 按首次出现顺序输出（列表视图）
func (g DateGroups) List() []DateGroup {
	out := make([]DateGroup, 0, len(g.Order))
	for _, d := range g.Order {
		out = append(out, DateGroup{Date: d, Notes: g.ByDate[d]})
	}
	return out
}

// Timeline 按日期倒序输出（时间线视图），与列表视图的顺序允许不同
func (g DateGroups) Timeline() []DateGroup {
	out := g.List()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// ScheduleProjector 把计划里的笔记映射到日历，纯函数，每次重新计算
type ScheduleProjector struct{}

// Flatten 按计划、笔记顺序展开，第 i 篇的日期为开始日期 + i 天（不截断）
func (ScheduleProjector) Flatten(plans []*domain.Plan) []ScheduledNote {
	var out []ScheduledNote
	for _, p := range plans {
		for i, n := range p.Notes {
			out = append(out, ScheduledNote{
				PlanID:    p.ID,
				PlanName:  p.Name,
				AccountID: p.AccountID,
				Index:     i,
				Date:      p.NoteDate(i),
				Note:      n,
			})
		}
	}
	return out
}

// CellsForDate 某天的日历格：计划区间包含该日，且推算日期恰为该日的笔记
func (ScheduleProjector) CellsForDate(plans []*domain.Plan, date time.Time) []ScheduledNote {
	d := domain.DateOf(date)
	var out []ScheduledNote
	for _, p := range plans {
		if !p.Covers(d) {
			continue
		}
		i := domain.DaysBetween(p.StartDate, d)
		if i < 0 || i >= len(p.Notes) {
			continue
		}
		out = append(out, ScheduledNote{
			PlanID:    p.ID,
			PlanName:  p.Name,
			AccountID: p.AccountID,
			Index:     i,
			Date:      d,
			Note:      p.Notes[i],
		})
	}
	return out
}

// GroupByDate 按 ISO 日期分组，保留日期首次出现的顺序
func (ScheduleProjector) GroupByDate(items []ScheduledNote) DateGroups {
	g := DateGroups{ByDate: make(map[string][]ScheduledNote)}
	for _, it := range items {
		k := it.DateKey()
		if _, ok := g.ByDate[k]; !ok {
			g.Order = append(g.Order, k)
		}
		g.ByDate[k] = append(g.ByDate[k], it)
	}
	return g
}

// Month 一个月每天的日历格
func (sp ScheduleProjector) Month(plans []*domain.Plan, year int, month time.Month) []DateGroup {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var out []DateGroup
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		out = append(out, DateGroup{Date: domain.FormatDate(d), Notes: sp.CellsForDate(plans, d)})
	}
	return out
}

// ScheduleUseCase 从仓库读取计划后做投影
type ScheduleUseCase struct {
	repo PlanRepo
	proj ScheduleProjector
}

// NewScheduleUseCase 创建日程投影业务逻辑实例
func NewScheduleUseCase(repo PlanRepo) *ScheduleUseCase {
	return &ScheduleUseCase{repo: repo}
}

// CellsForDate 某一天的日历格
func (uc *ScheduleUseCase) CellsForDate(ctx context.Context, date time.Time) ([]ScheduledNote, error) {
	plans, err := uc.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	return uc.proj.CellsForDate(plans, date), nil
}

// Month 整月日历
func (uc *ScheduleUseCase) Month(ctx context.Context, year int, month time.Month) ([]DateGroup, error) {
	plans, err := uc.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	return uc.proj.Month(plans, year, month), nil
}

// Groups 全部笔记按日期分组；可限定单个计划
func (uc *ScheduleUseCase) Groups(ctx context.Context, planID string) (DateGroups, error) {
	var plans []*domain.Plan
	if planID != "" {
		p, err := uc.repo.GetPlan(ctx, planID)
		if err != nil {
			return DateGroups{}, err
		}
		plans = []*domain.Plan{p}
	} else {
		all, err := uc.repo.ListPlans(ctx)
		if err != nil {
			return DateGroups{}, err
		}
		plans = all
	}
	return uc.proj.GroupByDate(uc.proj.Flatten(plans)), nil
}
