package service

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type CreatePlanReq struct {
	Name        string   `json:"name"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Count       int      `json:"count"`
	AccountID   string   `json:"account_id"`
	ImageSource string   `json:"image_source"`
	Images      []string `json:"images"`
	Theme       string   `json:"theme"`
	ContentType string   `json:"content_type"`
	Tone        string   `json:"tone"`
}

func (r *CreatePlanReq) toBiz() (*biz.CreatePlanRequest, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return nil, err
	}
	return &biz.CreatePlanRequest{
		Name:        r.Name,
		StartDate:   start,
		EndDate:     end,
		Count:       r.Count,
		AccountID:   r.AccountID,
		ImageSource: biz.ImageSource(r.ImageSource),
		Images:      r.Images,
		Theme:       r.Theme,
		ContentType: domain.ContentType(r.ContentType),
		Tone:        domain.Tone(r.Tone),
	}, nil
}

type SingleNoteReq struct {
	ContentType string   `json:"content_type"`
	Tone        string   `json:"tone"`
	ImageURL    string   `json:"image_url"`
	AccountID   string   `json:"account_id"`
	Platforms   []string `json:"platforms"`
}

type SuggestCountReq struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Frequency string `json:"frequency"`
}

type SuggestCountReply struct {
	Count int `json:"count"`
}

type PlanIDReq struct {
	ID string `json:"id"`
}

type UpdatePlanReq struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	AccountID *string `json:"account_id"`
}

type ListPlansReply struct {
	Plans []*PlanView `json:"plans"`
}

// NoteReq 笔记的增改删；id 为计划 ID，noteId 为笔记 ID
type NoteReq struct {
	ID          string   `json:"id"`
	NoteID      string   `json:"noteId"`
	Platform    string   `json:"platform"`
	Confirm     bool     `json:"confirm"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"image_url"`
	ContentType string   `json:"content_type"`
	Tone        string   `json:"tone"`
	Tags        []string `json:"tags"`
}

func (r *NoteReq) note() *domain.Note {
	return &domain.Note{
		ID:          r.NoteID,
		Title:       r.Title,
		Content:     r.Content,
		ImageURL:    r.ImageURL,
		ContentType: domain.ContentType(r.ContentType),
		Tone:        domain.Tone(r.Tone),
		Tags:        r.Tags,
	}
}

type CalendarReq struct {
	Date     string `json:"date"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Platform string `json:"platform"`
}

type CalendarReply struct {
	Days []DayView `json:"days"`
}

type ScheduleReq struct {
	PlanID   string `json:"plan_id"`
	Platform string `json:"platform"`
}

type GenerateReq struct {
	CreatePlanReq
	Kind string `json:"kind"`
}

type JobIDReq struct {
	ID string `json:"id"`
}

func (s *DashboardService) ListPlans(ctx context.Context, _ *Empty) (*ListPlansReply, error) {
	plans, err := s.ucPlan.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	reply := &ListPlansReply{Plans: make([]*PlanView, 0, len(plans))}
	for _, p := range plans {
		reply.Plans = append(reply.Plans, toPlanView(p))
	}
	return reply, nil
}

func (s *DashboardService) CreatePlan(ctx context.Context, req *CreatePlanReq) (*PlanView, error) {
	in, err := req.toBiz()
	if err != nil {
		return nil, err
	}
	p, err := s.ucPlan.CreatePlan(ctx, in)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) CreateSingleNote(ctx context.Context, req *SingleNoteReq) (*PlanView, error) {
	in := &biz.SingleNoteRequest{
		ContentType: domain.ContentType(req.ContentType),
		Tone:        domain.Tone(req.Tone),
		ImageURL:    req.ImageURL,
		AccountID:   req.AccountID,
	}
	for _, p := range req.Platforms {
		in.Platforms = append(in.Platforms, domain.Platform(p))
	}
	p, err := s.ucPlan.CreateSingleNote(ctx, in)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) SuggestCount(ctx context.Context, req *SuggestCountReq) (*SuggestCountReply, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	n, err := biz.SuggestCount(start, end, biz.Frequency(req.Frequency))
	if err != nil {
		return nil, err
	}
	return &SuggestCountReply{Count: n}, nil
}

func (s *DashboardService) ActivePlan(ctx context.Context, _ *Empty) (*PlanView, error) {
	p, err := s.ucPlan.ActivePlan(ctx)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) GetPlan(ctx context.Context, req *PlanIDReq) (*PlanView, error) {
	p, err := s.ucPlan.GetPlan(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) UpdatePlan(ctx context.Context, req *UpdatePlanReq) (*PlanView, error) {
	p, err := s.ucPlan.UpdatePlan(ctx, req.ID, biz.PlanPatch{Name: req.Name, AccountID: req.AccountID})
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) DeletePlan(ctx context.Context, req *PlanIDReq) (*Empty, error) {
	if err := s.ucPlan.DeletePlan(ctx, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *DashboardService) SelectPlan(ctx context.Context, req *PlanIDReq) (*PlanView, error) {
	p, err := s.ucPlan.SelectPlan(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) ConfirmPlan(ctx context.Context, req *PlanIDReq) (*PlanView, error) {
	p, err := s.ucPlan.ConfirmPlan(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

func (s *DashboardService) AddNote(ctx context.Context, req *NoteReq) (*domain.Note, error) {
	return s.ucPlan.AddNote(ctx, req.ID, req.note())
}

func (s *DashboardService) EditNote(ctx context.Context, req *NoteReq) (*domain.Note, error) {
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	return s.ucPlan.EditNote(ctx, req.ID, req.note(), platform)
}

// DeleteNote 删除不可撤销，必须显式带 confirm=true
func (s *DashboardService) DeleteNote(ctx context.Context, req *NoteReq) (*PlanView, error) {
	if !req.Confirm {
		return nil, errors.BadRequest(biz.ReasonConfirmRequired, "deleting a note cannot be undone, pass confirm=true")
	}
	p, err := s.ucPlan.DeleteNote(ctx, req.ID, req.NoteID)
	if err != nil {
		return nil, err
	}
	return toPlanView(p), nil
}

// Calendar date 与 year/month 二选一
func (s *DashboardService) Calendar(ctx context.Context, req *CalendarReq) (*CalendarReply, error) {
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	if req.Date != "" {
		d, err := parseDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		cells, err := s.ucSchedule.CellsForDate(ctx, d)
		if err != nil {
			return nil, err
		}
		return &CalendarReply{Days: []DayView{{Date: domain.FormatDate(d), Notes: toScheduledViews(cells, platform)}}}, nil
	}
	if req.Year == 0 || req.Month < 1 || req.Month > 12 {
		return nil, errors.BadRequest(biz.ReasonInvalidArgument, "date or year and month are required")
	}
	days, err := s.ucSchedule.Month(ctx, req.Year, time.Month(req.Month))
	if err != nil {
		return nil, err
	}
	return &CalendarReply{Days: toDayViews(days, platform)}, nil
}

// Timeline 按日期倒序
func (s *DashboardService) Timeline(ctx context.Context, req *ScheduleReq) (*CalendarReply, error) {
	return s.schedule(ctx, req, true)
}

// Schedule 按日期首次出现的顺序
func (s *DashboardService) Schedule(ctx context.Context, req *ScheduleReq) (*CalendarReply, error) {
	return s.schedule(ctx, req, false)
}

func (s *DashboardService) schedule(ctx context.Context, req *ScheduleReq, timeline bool) (*CalendarReply, error) {
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	groups, err := s.ucSchedule.Groups(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if timeline {
		return &CalendarReply{Days: toDayViews(groups.Timeline(), platform)}, nil
	}
	return &CalendarReply{Days: toDayViews(groups.List(), platform)}, nil
}

// Generate kind 为 plan（默认）或 batch
func (s *DashboardService) Generate(ctx context.Context, req *GenerateReq) (*biz.JobSnapshot, error) {
	var (
		snap biz.JobSnapshot
		err  error
	)
	switch biz.JobKind(req.Kind) {
	case "", biz.JobPlan:
		in, perr := req.CreatePlanReq.toBiz()
		if perr != nil {
			return nil, perr
		}
		snap, err = s.tracker.StartPlan(ctx, in)
	case biz.JobBatch:
		snap, err = s.tracker.StartBatch(ctx, &biz.BatchRequest{
			Theme:       req.Theme,
			Count:       req.Count,
			ContentType: domain.ContentType(req.ContentType),
			Tone:        domain.Tone(req.Tone),
		})
	default:
		return nil, errors.BadRequest(biz.ReasonInvalidArgument, "unknown job kind "+req.Kind)
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *DashboardService) GetGeneration(ctx context.Context, req *JobIDReq) (*biz.JobSnapshot, error) {
	snap, err := s.tracker.Get(req.ID)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *DashboardService) CancelGeneration(ctx context.Context, req *JobIDReq) (*biz.JobSnapshot, error) {
	snap, err := s.tracker.Cancel(req.ID)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
