package service

import (
	"context"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type OpenEditorReq struct {
	PlanID string `json:"plan_id"`
	NoteID string `json:"note_id"`
	Index  int    `json:"index"`
}

type EditorReq struct {
	ID string `json:"id"`
}

type UpdateEditorReq struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title"`
	Content     *string  `json:"content"`
	ImageURL    *string  `json:"image_url"`
	ContentType *string  `json:"content_type"`
	Tone        *string  `json:"tone"`
	Tags        []string `json:"tags"`
}

type AdjustReq struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
}

type SaveEditorReq struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
}

// EditorReply 编辑会话快照
type EditorReply struct {
	ID     string       `json:"id"`
	State  string       `json:"state"`
	PlanID string       `json:"plan_id,omitempty"`
	Index  int          `json:"index"`
	Note   *domain.Note `json:"note,omitempty"`
}

func editorReply(id string, e *biz.NoteEditor) *EditorReply {
	r := &EditorReply{ID: id, State: e.State().String(), Index: -1}
	if n, idx, planID, err := e.Buffer(); err == nil {
		r.Note, r.Index, r.PlanID = n, idx, planID
	}
	return r
}

func (s *DashboardService) OpenEditor(ctx context.Context, req *OpenEditorReq) (*EditorReply, error) {
	if req.PlanID == "" {
		return nil, biz.ErrMissingField("plan_id")
	}
	id, e, err := s.editors.Open(ctx, req.PlanID, req.NoteID, req.Index)
	if err != nil {
		return nil, err
	}
	return editorReply(id, e), nil
}

func (s *DashboardService) GetEditor(ctx context.Context, req *EditorReq) (*EditorReply, error) {
	e, err := s.editors.Get(req.ID)
	if err != nil {
		return nil, err
	}
	return editorReply(req.ID, e), nil
}

func (s *DashboardService) UpdateEditor(ctx context.Context, req *UpdateEditorReq) (*EditorReply, error) {
	e, err := s.editors.Get(req.ID)
	if err != nil {
		return nil, err
	}
	patch := biz.NotePatch{Title: req.Title, Content: req.Content, ImageURL: req.ImageURL, Tags: req.Tags}
	if req.ContentType != nil {
		ct := domain.ContentType(*req.ContentType)
		patch.ContentType = &ct
	}
	if req.Tone != nil {
		tone := domain.Tone(*req.Tone)
		patch.Tone = &tone
	}
	if _, err := e.Update(patch); err != nil {
		return nil, err
	}
	return editorReply(req.ID, e), nil
}

func (s *DashboardService) NextNote(ctx context.Context, req *EditorReq) (*EditorReply, error) {
	e, err := s.editors.Get(req.ID)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.Next(ctx); err != nil {
		return nil, err
	}
	return editorReply(req.ID, e), nil
}

func (s *DashboardService) PrevNote(ctx context.Context, req *EditorReq) (*EditorReply, error) {
	e, err := s.editors.Get(req.ID)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.Prev(ctx); err != nil {
		return nil, err
	}
	return editorReply(req.ID, e), nil
}

func (s *DashboardService) AdjustNote(ctx context.Context, req *AdjustReq) (*EditorReply, error) {
	e, err := s.editors.Get(req.ID)
	if err != nil {
		return nil, err
	}
	if _, err := e.Adjust(ctx, req.Direction); err != nil {
		return nil, err
	}
	return editorReply(req.ID, e), nil
}

// SaveEditor 提交后释放会话
func (s *DashboardService) SaveEditor(ctx context.Context, req *SaveEditorReq) (*domain.Note, error) {
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	e, err := s.editors.Get(req.ID)
	if err != nil {
		return nil, err
	}
	saved, err := e.Save(ctx, platform)
	if err != nil {
		return nil, err
	}
	s.editors.Release(req.ID)
	return saved, nil
}

func (s *DashboardService) CloseEditor(ctx context.Context, req *EditorReq) (*Empty, error) {
	if _, err := s.editors.Get(req.ID); err != nil {
		return nil, err
	}
	s.editors.Release(req.ID)
	return &Empty{}, nil
}
