package service

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type ListContentsReq struct {
	Status string `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
	Tag    string `json:"tag"`
}

type ContentsReply struct {
	Items []*domain.ContentItem `json:"items"`
}

type ContentReq struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"image_url"`
	Status      string   `json:"status"`
	PublishTime string   `json:"publish_time"`
	Tags        []string `json:"tags"`
	ContentType string   `json:"content_type"`
	Tone        string   `json:"tone"`
}

func (r *ContentReq) item() (*domain.ContentItem, error) {
	c := &domain.ContentItem{
		Title:       r.Title,
		Content:     r.Content,
		ImageURL:    r.ImageURL,
		Status:      domain.ContentStatus(r.Status),
		Tags:        r.Tags,
		ContentType: domain.ContentType(r.ContentType),
		Tone:        domain.Tone(r.Tone),
	}
	if r.PublishTime != "" {
		t, err := parseTime("publish_time", r.PublishTime)
		if err != nil {
			return nil, err
		}
		c.PublishTime = &t
	}
	return c, nil
}

type BatchReq struct {
	Theme       string `json:"theme"`
	Count       int    `json:"count"`
	ContentType string `json:"content_type"`
	Tone        string `json:"tone"`
}

type ContentIDReq struct {
	ID string `json:"id"`
}

type ContentCalendarReq struct {
	Date string `json:"date"`
}

func (s *DashboardService) ListContents(ctx context.Context, req *ListContentsReq) (*ContentsReply, error) {
	from, err := parseTime("from", req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseTime("to", req.To)
	if err != nil {
		return nil, err
	}
	items, err := s.ucContent.List(ctx, biz.ContentFilter{Status: req.Status, From: from, To: to, Tag: req.Tag})
	if err != nil {
		return nil, err
	}
	return &ContentsReply{Items: items}, nil
}

func (s *DashboardService) ContentCalendar(ctx context.Context, req *ContentCalendarReq) (*ContentsReply, error) {
	if req.Date == "" {
		return nil, biz.ErrMissingField("date")
	}
	d, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	items, err := s.ucContent.CalendarFor(ctx, d)
	if err != nil {
		return nil, err
	}
	return &ContentsReply{Items: items}, nil
}

func (s *DashboardService) CreateContent(ctx context.Context, req *ContentReq) (*domain.ContentItem, error) {
	c, err := req.item()
	if err != nil {
		return nil, err
	}
	return s.ucContent.Create(ctx, c)
}

func (s *DashboardService) UpdateContent(ctx context.Context, req *ContentReq) (*domain.ContentItem, error) {
	c, err := req.item()
	if err != nil {
		return nil, err
	}
	return s.ucContent.Update(ctx, req.ID, c)
}

func (s *DashboardService) DeleteContent(ctx context.Context, req *ContentIDReq) (*Empty, error) {
	if err := s.ucContent.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *DashboardService) BatchContents(ctx context.Context, req *BatchReq) (*ContentsReply, error) {
	items, err := s.ucContent.CreateBatch(ctx, &biz.BatchRequest{
		Theme:       req.Theme,
		Count:       req.Count,
		ContentType: domain.ContentType(req.ContentType),
		Tone:        domain.Tone(req.Tone),
	})
	if err != nil {
		return nil, err
	}
	return &ContentsReply{Items: items}, nil
}
