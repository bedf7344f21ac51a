package biz

import (
	"context"
	"strings"
	"sync"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// EditorState 编辑会话状态；缓冲区的修改直接写在 editing 状态下，没有单独的 dirty 状态
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorEditing
)

func (s EditorState) String() string {
	if s == EditorEditing {
		return "editing"
	}
	return "closed"
}

// NotePatch 编辑缓冲区的字段修改，nil 表示不改
type NotePatch struct {
	Title       *string
	Content     *string
	ImageURL    *string
	ContentType *domain.ContentType
	Tone        *domain.Tone
	Tags        []string
}

func errEditorClosed() error {
	return errors.BadRequest(ReasonEditorClosed, "editor is closed")
}

// NoteEditor 单篇笔记的临时编辑会话，可在所属计划内前后切换
type NoteEditor struct {
	plans     *PlanUseCase
	assistant ContentAssistant

	mu     sync.Mutex
	state  EditorState
	planID string
	index  int
	buffer *domain.Note
	// session 每次载入或关闭都加一，用来识别切换前发起的异步结果
	session uint64
}

// NewNoteEditor 创建处于 closed 状态的编辑器
func NewNoteEditor(plans *PlanUseCase, assistant ContentAssistant) *NoteEditor {
	return &NoteEditor{plans: plans, assistant: assistant, index: -1}
}

// Open closed -> editing，选中计划中的第 index 篇笔记
func (e *NoteEditor) Open(ctx context.Context, planID string, index int) (*domain.Note, error) {
	p, err := e.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Notes) {
		return nil, errors.NotFound(ReasonNoteNotFound, "note index out of range")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(p, index)
	return e.buffer.Clone(), nil
}

// OpenNote 按笔记 ID 打开
func (e *NoteEditor) OpenNote(ctx context.Context, planID, noteID string) (*domain.Note, error) {
	p, err := e.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	idx := p.NoteIndex(noteID)
	if idx < 0 {
		return nil, ErrNoteNotFound(noteID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(p, idx)
	return e.buffer.Clone(), nil
}

func (e *NoteEditor) load(p *domain.Plan, index int) {
	e.state = EditorEditing
	e.planID = p.ID
	e.index = index
	e.buffer = p.Notes[index].Clone()
	e.session++
}

// Next 切换到下一篇，已是最后一篇时不做任何事
func (e *NoteEditor) Next(ctx context.Context) (*domain.Note, int, error) {
	return e.step(ctx, 1)
}

// Prev 切换到上一篇，已是第一篇时不做任何事
func (e *NoteEditor) Prev(ctx context.Context) (*domain.Note, int, error) {
	return e.step(ctx, -1)
}

// step 需要所属计划；在边界处截断不回绕，切换会丢弃未保存的缓冲区
func (e *NoteEditor) step(ctx context.Context, delta int) (*domain.Note, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorEditing {
		return nil, -1, errEditorClosed()
	}
	p, err := e.plans.GetPlan(ctx, e.planID)
	if err != nil {
		return nil, -1, err
	}
	if len(p.Notes) == 0 {
		e.close()
		return nil, -1, errors.NotFound(ReasonNoteNotFound, "plan has no notes")
	}
	// 计划在别处被删减时，下标收回到新的末尾
	next := min(max(e.index+delta, 0), len(p.Notes)-1)
	if next == e.index {
		return e.buffer.Clone(), e.index, nil
	}
	e.load(p, next)
	return e.buffer.Clone(), e.index, nil
}

// State 当前状态
func (e *NoteEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Buffer 返回缓冲区副本、下标和所属计划
func (e *NoteEditor) Buffer() (*domain.Note, int, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorEditing {
		return nil, -1, "", errEditorClosed()
	}
	return e.buffer.Clone(), e.index, e.planID, nil
}

// Update 修改缓冲区
func (e *NoteEditor) Update(patch NotePatch) (*domain.Note, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorEditing {
		return nil, errEditorClosed()
	}
	b := e.buffer
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		b.ImageURL = *patch.ImageURL
	}
	if patch.ContentType != nil {
		b.ContentType = *patch.ContentType
	}
	if patch.Tone != nil {
		b.Tone = *patch.Tone
	}
	if patch.Tags != nil {
		b.Tags = append([]string(nil), patch.Tags...)
	}
	return b.Clone(), nil
}

// Adjust 调用内容协作者按方向调整缓冲区内容
func (e *NoteEditor) Adjust(ctx context.Context, direction string) (*domain.Note, error) {
	direction = strings.TrimSpace(direction)
	if direction == "" {
		return nil, ErrMissingField("direction")
	}
	e.mu.Lock()
	if e.state != EditorEditing {
		e.mu.Unlock()
		return nil, errEditorClosed()
	}
	in := domain.PlatformContent{Title: e.buffer.Title, Content: e.buffer.Content, ImageURL: e.buffer.ImageURL}
	session := e.session
	e.mu.Unlock()

	// 协作者可能是远程调用，不持锁
	out, err := e.assistant.AdjustContent(ctx, in, direction)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorEditing || e.session != session {
		return nil, errors.Conflict(ReasonEditorClosed, "editor moved while adjusting")
	}
	if out.Title != "" {
		e.buffer.Title = out.Title
	}
	if out.Content != "" {
		e.buffer.Content = out.Content
	}
	if out.ImageURL != "" {
		e.buffer.ImageURL = out.ImageURL
	}
	return e.buffer.Clone(), nil
}

// Save 通过 PlanUseCase.EditNote 提交缓冲区，成功后回到 closed；校验失败时保持 editing
func (e *NoteEditor) Save(ctx context.Context, platform domain.Platform) (*domain.Note, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorEditing {
		return nil, errEditorClosed()
	}
	saved, err := e.plans.EditNote(ctx, e.planID, e.buffer, platform)
	if err != nil {
		return nil, err
	}
	e.close()
	return saved, nil
}

// Cancel 丢弃缓冲区并关闭
func (e *NoteEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.close()
}

func (e *NoteEditor) close() {
	e.state = EditorClosed
	e.planID = ""
	e.index = -1
	e.buffer = nil
	e.session++
}

// EditorRegistry 按会话 ID 保存编辑器，供 HTTP 层使用
type EditorRegistry struct {
	plans     *PlanUseCase
	assistant ContentAssistant

	mu       sync.Mutex
	sessions map[string]*NoteEditor
}

// NewEditorRegistry 创建编辑会话表
func NewEditorRegistry(plans *PlanUseCase, assistant ContentAssistant) *EditorRegistry {
	return &EditorRegistry{plans: plans, assistant: assistant, sessions: make(map[string]*NoteEditor)}
}

// Open 新建会话并打开笔记；noteID 非空时优先按 ID 打开
func (r *EditorRegistry) Open(ctx context.Context, planID, noteID string, index int) (string, *NoteEditor, error) {
	e := NewNoteEditor(r.plans, r.assistant)
	var err error
	if noteID != "" {
		_, err = e.OpenNote(ctx, planID, noteID)
	} else {
		_, err = e.Open(ctx, planID, index)
	}
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = e
	r.mu.Unlock()
	return id, e, nil
}

// Get 取会话
func (r *EditorRegistry) Get(id string) (*NoteEditor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound(ReasonEditorNotFound, "editor session not found")
	}
	return e, nil
}

// Release 关闭并移除会话
func (r *EditorRegistry) Release(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.Cancel()
	}
}

// Len 当前会话数
func (r *EditorRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
