package service

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type MomentReq struct {
	ID                string `json:"id"`
	ImageURL          string `json:"image_url"`
	Content           string `json:"content"`
	ScheduledTime     string `json:"scheduled_time"`
	SyncToXiaohongshu bool   `json:"sync_to_xiaohongshu"`
}

func (r *MomentReq) toBiz() (*biz.MomentRequest, error) {
	t, err := parseTime("scheduled_time", r.ScheduledTime)
	if err != nil {
		return nil, err
	}
	return &biz.MomentRequest{
		ImageURL:          r.ImageURL,
		Content:           r.Content,
		ScheduledTime:     t,
		SyncToXiaohongshu: r.SyncToXiaohongshu,
	}, nil
}

type MomentIDReq struct {
	ID string `json:"id"`
}

type MomentsReply struct {
	Moments []*domain.Moment `json:"moments"`
}

type GenerateMomentReq struct {
	Hint string `json:"hint"`
}

type GenerateMomentReply struct {
	Content string `json:"content"`
}

func (s *DashboardService) ListMoments(ctx context.Context, _ *Empty) (*MomentsReply, error) {
	ms, err := s.ucMoment.List(ctx)
	if err != nil {
		return nil, err
	}
	return &MomentsReply{Moments: ms}, nil
}

func (s *DashboardService) CreateMoment(ctx context.Context, req *MomentReq) (*domain.Moment, error) {
	in, err := req.toBiz()
	if err != nil {
		return nil, err
	}
	return s.ucMoment.Create(ctx, in)
}

func (s *DashboardService) UpdateMoment(ctx context.Context, req *MomentReq) (*domain.Moment, error) {
	in, err := req.toBiz()
	if err != nil {
		return nil, err
	}
	return s.ucMoment.Update(ctx, req.ID, in)
}

func (s *DashboardService) DeleteMoment(ctx context.Context, req *MomentIDReq) (*Empty, error) {
	if err := s.ucMoment.Delete(ctx, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *DashboardService) MarkMomentSent(ctx context.Context, req *MomentIDReq) (*domain.Moment, error) {
	return s.ucMoment.MarkSent(ctx, req.ID)
}

func (s *DashboardService) GenerateMoment(ctx context.Context, req *GenerateMomentReq) (*GenerateMomentReply, error) {
	text, err := s.ucMoment.GenerateContent(ctx, req.Hint)
	if err != nil {
		return nil, err
	}
	return &GenerateMomentReply{Content: text}, nil
}
