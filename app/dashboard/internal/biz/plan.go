package biz

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

const (
	maxPlanCount   = 100
	placeholderFmt = "https://picsum.photos/400/400?random=%d"
	placeholderMsg = "这是一篇小红书笔记内容示例..."
	singleNoteMsg  = "根据内容诉求和语气生成的内容..."
	maxMaterialLen = 1000
)

// PlanRepo 发布计划仓库接口，实现方负责拷贝隔离
type PlanRepo interface {
	// ListPlans 按创建顺序返回全部计划
	ListPlans(ctx context.Context) ([]*domain.Plan, error)
	// GetPlan 不存在时返回 PLAN_NOT_FOUND
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	// SavePlan 新增或整体覆盖一个计划（含笔记）
	SavePlan(ctx context.Context, p *domain.Plan) error
	// DeletePlan 删除计划及其笔记
	DeletePlan(ctx context.Context, id string) error
}

// ImageSource 配图来源
type ImageSource string

const (
	ImageAuto   ImageSource = "auto"
	ImageManual ImageSource = "manual"
)

// Frequency 发布频率预设
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyEveryOther Frequency = "every_other_day"
	FrequencyTwiceDaily Frequency = "twice_daily"
)

// CreatePlanRequest 创建计划的表单
type CreatePlanRequest struct {
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Count       int
	AccountID   string
	ImageSource ImageSource
	Images      []string
	Theme       string
	ContentType domain.ContentType
	Tone        domain.Tone
	// Materials 可选，第 i 条素材用于第 i 篇笔记
	Materials []Material
}

// Validate 校验表单，失败时不产生任何状态
func (r *CreatePlanRequest) Validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return errors.BadRequest(ReasonInvalidDateRange, "start and end date are required")
	}
	if domain.DateOf(r.EndDate).Before(domain.DateOf(r.StartDate)) {
		return errors.BadRequest(ReasonInvalidDateRange, "end date is before start date")
	}
	if r.Count < 1 || r.Count > maxPlanCount {
		return errors.BadRequest(ReasonInvalidCount, fmt.Sprintf("count must be between 1 and %d", maxPlanCount))
	}
	switch r.ImageSource {
	case "", ImageAuto, ImageManual:
	default:
		return errors.BadRequest(ReasonInvalidArgument, "unknown image source "+string(r.ImageSource))
	}
	if !r.ContentType.Valid() {
		return errors.BadRequest(ReasonInvalidArgument, "unknown content type "+string(r.ContentType))
	}
	if !r.Tone.Valid() {
		return errors.BadRequest(ReasonInvalidArgument, "unknown tone "+string(r.Tone))
	}
	return nil
}

// SynthesizeNotes 按下标生成笔记：第 i 篇的推算日期为开始日期 + i 天，
// 配图优先级：手动选图的第 i 张 > 第 i 条素材自带的图 > 按下标区分的占位图
func SynthesizeNotes(r *CreatePlanRequest, newID func() string) []*domain.Note {
	notes := make([]*domain.Note, r.Count)
	for i := range notes {
		n := &domain.Note{
			ID:          newID(),
			Title:       fmt.Sprintf("笔记 %d", i+1),
			Content:     placeholderMsg,
			ImageURL:    fmt.Sprintf(placeholderFmt, i),
			ContentType: r.ContentType,
			Tone:        r.Tone,
		}
		if r.Theme != "" {
			n.Tags = []string{r.Theme}
		}
		if i < len(r.Materials) {
			m := r.Materials[i]
			if m.Title != "" {
				n.Title = m.Title
			}
			if body := truncateRunes(strings.TrimSpace(m.Body), maxMaterialLen); body != "" {
				n.Content = body
			}
			if m.ImageURL != "" {
				n.ImageURL = m.ImageURL
			}
		}
		if r.ImageSource == ImageManual && i < len(r.Images) && r.Images[i] != "" {
			n.ImageURL = r.Images[i]
		}
		notes[i] = n
	}
	return notes
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// SuggestCount 按频率预设给出计划篇数
func SuggestCount(start, end time.Time, f Frequency) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, errors.BadRequest(ReasonInvalidDateRange, "start and end date are required")
	}
	days := domain.DaysBetween(start, end)
	if days < 0 {
		days = -days
	}
	switch f {
	case FrequencyDaily:
		return days + 1, nil
	case FrequencyEveryOther:
		return (days + 2) / 2, nil
	case FrequencyTwiceDaily:
		return (days + 1) * 2, nil
	}
	return 0, errors.BadRequest(ReasonInvalidArgument, "unknown frequency "+string(f))
}

// SingleNoteRequest 单篇笔记表单
type SingleNoteRequest struct {
	ContentType domain.ContentType
	Tone        domain.Tone
	ImageURL    string
	AccountID   string
	Platforms   []domain.Platform
}

// PlanPatch 计划的可修改字段
type PlanPatch struct {
	Name      *string
	AccountID *string
}

// PlanUseCase 发布计划的业务逻辑（PlanStore）
type PlanUseCase struct {
	repo     PlanRepo
	accounts AccountRepo
	notifier Notifier
	log      *log.Helper

	// mu 串行化读改写，activeID 为当前选中的计划
	mu       sync.Mutex
	activeID string

	now   func() time.Time
	newID func() string
}

// NewPlanUseCase 创建发布计划业务逻辑实例
func NewPlanUseCase(repo PlanRepo, accounts AccountRepo, notifier Notifier, logger log.Logger) *PlanUseCase {
	return &PlanUseCase{
		repo:     repo,
		accounts: accounts,
		notifier: notifier,
		log:      log.NewHelper(log.With(logger, "module", "biz/plan")),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

func (uc *PlanUseCase) checkAccount(ctx context.Context, id string) error {
	if id == "" || uc.accounts == nil {
		return nil
	}
	_, err := uc.accounts.GetAccount(ctx, id)
	return err
}

// CreatePlan 创建计划并生成笔记，成功后设为当前选中计划
func (uc *PlanUseCase) CreatePlan(ctx context.Context, req *CreatePlanRequest) (*domain.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	notes := SynthesizeNotes(req, uc.newID)
	p := &domain.Plan{
		ID:          uc.newID(),
		Name:        req.Name,
		StartDate:   domain.DateOf(req.StartDate),
		EndDate:     domain.DateOf(req.EndDate),
		Count:       len(notes),
		TargetCount: req.Count,
		AccountID:   req.AccountID,
		Notes:       notes,
		CreatedAt:   uc.now(),
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.repo.SavePlan(ctx, p); err != nil {
		return nil, err
	}
	uc.activeID = p.ID
	uc.log.WithContext(ctx).Infof("plan created: id=%s range=%s..%s count=%d",
		p.ID, domain.FormatDate(p.StartDate), domain.FormatDate(p.EndDate), p.Count)
	return p, nil
}

// CreateSingleNote 单篇笔记：开始与结束都是今天的一篇计划
func (uc *PlanUseCase) CreateSingleNote(ctx context.Context, req *SingleNoteRequest) (*domain.Plan, error) {
	if req.ContentType == "" {
		return nil, ErrMissingField("content_type")
	}
	if req.Tone == "" {
		return nil, ErrMissingField("tone")
	}
	if !req.ContentType.Valid() || !req.Tone.Valid() {
		return nil, errors.BadRequest(ReasonInvalidArgument, "unknown content type or tone")
	}
	if len(req.Platforms) == 0 {
		return nil, ErrMissingField("platforms")
	}
	for _, p := range req.Platforms {
		if p == "" {
			return nil, errors.BadRequest(ReasonInvalidPlatform, "empty platform")
		}
		if _, err := domain.ParsePlatform(string(p)); err != nil {
			return nil, errors.BadRequest(ReasonInvalidPlatform, err.Error())
		}
	}
	if err := uc.checkAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	now := uc.now()
	today := domain.DateOf(now)
	image := req.ImageURL
	if image == "" {
		image = fmt.Sprintf(placeholderFmt, now.UnixMilli())
	}
	p := &domain.Plan{
		ID:          uc.newID(),
		StartDate:   today,
		EndDate:     today,
		Count:       1,
		TargetCount: 1,
		AccountID:   req.AccountID,
		Notes: []*domain.Note{{
			ID:          uc.newID(),
			Title:       fmt.Sprintf("笔记-%d", now.UnixMilli()),
			Content:     singleNoteMsg,
			ImageURL:    image,
			ContentType: req.ContentType,
			Tone:        req.Tone,
		}},
		CreatedAt: now,
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.repo.SavePlan(ctx, p); err != nil {
		return nil, err
	}
	uc.activeID = p.ID
	return p, nil
}

// ListPlans 全部计划
func (uc *PlanUseCase) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	return uc.repo.ListPlans(ctx)
}

// GetPlan 根据 ID 获取计划
func (uc *PlanUseCase) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return uc.repo.GetPlan(ctx, id)
}

// SelectPlan 切换当前选中计划
func (uc *PlanUseCase) SelectPlan(ctx context.Context, id string) (*domain.Plan, error) {
	p, err := uc.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.mu.Lock()
	uc.activeID = p.ID
	uc.mu.Unlock()
	return p, nil
}

// ActivePlan 当前选中的计划
func (uc *PlanUseCase) ActivePlan(ctx context.Context) (*domain.Plan, error) {
	uc.mu.Lock()
	id := uc.activeID
	uc.mu.Unlock()
	if id == "" {
		return nil, errors.NotFound(ReasonPlanNotFound, "no plan selected")
	}
	return uc.repo.GetPlan(ctx, id)
}

// UpdatePlan 修改计划名称或关联账号
func (uc *PlanUseCase) UpdatePlan(ctx context.Context, id string, patch PlanPatch) (*domain.Plan, error) {
	if patch.AccountID != nil {
		if err := uc.checkAccount(ctx, *patch.AccountID); err != nil {
			return nil, err
		}
	}
	return uc.mutate(ctx, id, func(p *domain.Plan) error {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.AccountID != nil {
			p.AccountID = *patch.AccountID
		}
		return nil
	})
}

// DeletePlan 删除计划
func (uc *PlanUseCase) DeletePlan(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.repo.DeletePlan(ctx, id); err != nil {
		return err
	}
	if uc.activeID == id {
		uc.activeID = ""
	}
	return nil
}

// AddNote 向计划末尾追加一篇笔记
func (uc *PlanUseCase) AddNote(ctx context.Context, planID string, note *domain.Note) (*domain.Note, error) {
	if err := validateNote(note); err != nil {
		return nil, err
	}
	added := note.Clone()
	if added.ID == "" {
		added.ID = uc.newID()
	}
	_, err := uc.mutate(ctx, planID, func(p *domain.Plan) error {
		if p.NoteIndex(added.ID) >= 0 {
			return errors.Conflict("NOTE_EXISTS", "note id already in plan")
		}
		p.Notes = append(p.Notes, added)
		p.Count++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added.Clone(), nil
}

// DeleteNote 删除指定笔记，计划篇数减一，不可撤销
func (uc *PlanUseCase) DeleteNote(ctx context.Context, planID, noteID string) (*domain.Plan, error) {
	return uc.mutate(ctx, planID, func(p *domain.Plan) error {
		idx := p.NoteIndex(noteID)
		if idx < 0 {
			return ErrNoteNotFound(noteID)
		}
		p.Notes = slices.Delete(p.Notes, idx, idx+1)
		p.Count--
		uc.log.WithContext(ctx).Infof("note deleted: plan=%s note=%s remaining=%d", p.ID, noteID, p.Count)
		return nil
	})
}

// EditNote 编辑笔记：指定平台时只写该平台的覆盖块，基础字段和另一平台保持不变；
// 不指定平台时整篇替换
func (uc *PlanUseCase) EditNote(ctx context.Context, planID string, note *domain.Note, platform domain.Platform) (*domain.Note, error) {
	if note == nil || note.ID == "" {
		return nil, ErrMissingField("note.id")
	}
	if err := validateNote(note); err != nil {
		return nil, err
	}
	if _, err := domain.ParsePlatform(string(platform)); err != nil {
		return nil, errors.BadRequest(ReasonInvalidPlatform, err.Error())
	}

	var updated *domain.Note
	_, err := uc.mutate(ctx, planID, func(p *domain.Plan) error {
		idx := p.NoteIndex(note.ID)
		if idx < 0 {
			return ErrNoteNotFound(note.ID)
		}
		if platform == "" {
			p.Notes[idx] = note.Clone()
		} else {
			cur := p.Notes[idx]
			if cur.Platforms == nil {
				cur.Platforms = &domain.Platforms{}
			}
			cur.Platforms.Set(platform, domain.PlatformContent{
				Title:    note.Title,
				Content:  note.Content,
				ImageURL: note.ImageURL,
			})
		}
		updated = p.Notes[idx].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConfirmPlan 确认执行计划并发送通知，通知失败只记录日志
func (uc *PlanUseCase) ConfirmPlan(ctx context.Context, id string) (*domain.Plan, error) {
	p, err := uc.mutate(ctx, id, func(p *domain.Plan) error {
		p.Confirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.notifier != nil {
		var account *domain.Account
		if p.AccountID != "" && uc.accounts != nil {
			account, _ = uc.accounts.GetAccount(ctx, p.AccountID)
		}
		if err := uc.notifier.PlanConfirmed(ctx, p, account); err != nil {
			uc.log.WithContext(ctx).Warnf("plan confirmed but notify failed: id=%s err=%v", p.ID, err)
		}
	}
	return p, nil
}

// mutate 在锁内读取、修改并写回计划
func (uc *PlanUseCase) mutate(ctx context.Context, id string, fn func(p *domain.Plan) error) (*domain.Plan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	p, err := uc.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := uc.repo.SavePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validateNote(n *domain.Note) error {
	if n == nil {
		return ErrMissingField("note")
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrMissingField("title")
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrMissingField("content")
	}
	if !n.ContentType.Valid() || !n.Tone.Valid() {
		return errors.BadRequest(ReasonInvalidArgument, "unknown content type or tone")
	}
	return nil
}
