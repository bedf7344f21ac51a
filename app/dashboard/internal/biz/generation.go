package biz

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// JobKind 生成任务类型
type JobKind string

const (
	JobPlan  JobKind = "plan"
	JobBatch JobKind = "batch"
)

// JobState 生成任务状态
type JobState string

const (
	JobRunning  JobState = "running"
	JobDone     JobState = "done"
	JobCanceled JobState = "canceled"
	JobFailed   JobState = "failed"
)

const maxRunningProgress = 95

var generationTips = []string{"正在帮您寻找合适的笔记素材", "正在为笔记素材配图", "正在编排笔记发布计划"}

// JobSnapshot 某一时刻的任务进度
type JobSnapshot struct {
	ID         string   `json:"id"`
	Kind       JobKind  `json:"kind"`
	State      JobState `json:"state"`
	Progress   int      `json:"progress"`
	Status     string   `json:"status"`
	Tip        string   `json:"tip"`
	PlanID     string   `json:"plan_id,omitempty"`
	ContentIDs []string `json:"content_ids,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// GenerationOptions 任务节奏
type GenerationOptions struct {
	// Duration 从开始到落地结果的时长
	Duration time.Duration
	// Tick 进度刷新间隔
	Tick time.Duration
	// TipEvery 每隔多少次刷新换一条提示
	TipEvery int
	// Retain 结束的任务保留多久，过期后查询返回 JOB_NOT_FOUND
	Retain time.Duration
}

func (o GenerationOptions) withDefaults() GenerationOptions {
	if o.Duration <= 0 {
		o.Duration = 15 * time.Second
	}
	if o.Tick <= 0 {
		o.Tick = 500 * time.Millisecond
	}
	if o.TipEvery <= 0 {
		o.TipEvery = 10
	}
	if o.Retain <= 0 {
		o.Retain = 10 * time.Minute
	}
	return o
}

type generationJob struct {
	snap   JobSnapshot
	ticks  int
	commit bool
	ended  time.Time
	cancel context.CancelFunc
}

// GenerationTracker 可取消的生成任务：进度条、提示语，到时后创建计划或批量草稿
type GenerationTracker struct {
	plans     *PlanUseCase
	contents  *ContentUseCase
	materials MaterialSource
	opts      GenerationOptions
	log       *log.Helper

	mu     sync.Mutex
	jobs   map[string]*generationJob
	closed bool
	wg     sync.WaitGroup

	rand func(n int) int
	now  func() time.Time
}

// NewGenerationTracker 创建生成任务管理器，materials 可为 nil
func NewGenerationTracker(plans *PlanUseCase, contents *ContentUseCase, materials MaterialSource, opts GenerationOptions, logger log.Logger) *GenerationTracker {
	return &GenerationTracker{
		plans:     plans,
		contents:  contents,
		materials: materials,
		opts:      opts.withDefaults(),
		log:       log.NewHelper(log.With(logger, "module", "biz/generation")),
		jobs:      make(map[string]*generationJob),
		rand:      rand.IntN,
		now:       time.Now,
	}
}

// StartPlan 校验表单后启动计划生成任务
func (t *GenerationTracker) StartPlan(ctx context.Context, req *CreatePlanRequest) (JobSnapshot, error) {
	if err := req.Validate(); err != nil {
		return JobSnapshot{}, err
	}
	r := *req
	return t.start(JobPlan, func(ctx context.Context, j *generationJob) error {
		if r.Theme != "" && t.materials != nil && len(r.Materials) == 0 {
			ms, err := t.materials.Find(ctx, r.Theme, r.Count)
			if err != nil {
				t.log.WithContext(ctx).Warnf("find materials failed, fall back to placeholders: theme=%q err=%v", r.Theme, err)
			} else {
				r.Materials = ms
			}
		}
		if !t.claim(j) {
			return context.Canceled
		}
		p, err := t.plans.CreatePlan(ctx, &r)
		if err != nil {
			return err
		}
		t.mu.Lock()
		j.snap.PlanID = p.ID
		t.mu.Unlock()
		return nil
	})
}

// StartBatch 校验参数后启动批量草稿任务
func (t *GenerationTracker) StartBatch(ctx context.Context, req *BatchRequest) (JobSnapshot, error) {
	if err := req.Validate(); err != nil {
		return JobSnapshot{}, err
	}
	r := *req
	return t.start(JobBatch, func(ctx context.Context, j *generationJob) error {
		if !t.claim(j) {
			return context.Canceled
		}
		items, err := t.contents.CreateBatch(ctx, &r)
		if err != nil {
			return err
		}
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		t.mu.Lock()
		j.snap.ContentIDs = ids
		t.mu.Unlock()
		return nil
	})
}

func (t *GenerationTracker) start(kind JobKind, materialize func(ctx context.Context, j *generationJob) error) (JobSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return JobSnapshot{}, errors.ServiceUnavailable("TRACKER_CLOSED", "generation tracker is closed")
	}
	t.sweep()
	ctx, cancel := context.WithCancel(context.Background())
	j := &generationJob{
		snap: JobSnapshot{
			ID:     uuid.NewString(),
			Kind:   kind,
			State:  JobRunning,
			Status: statusFor(0),
			Tip:    generationTips[0],
		},
		cancel: cancel,
	}
	t.jobs[j.snap.ID] = j
	t.wg.Add(1)
	go t.run(ctx, j, materialize)
	return j.snap, nil
}

func (t *GenerationTracker) run(ctx context.Context, j *generationJob, materialize func(ctx context.Context, j *generationJob) error) {
	defer t.wg.Done()
	defer j.cancel()

	ticker := time.NewTicker(t.opts.Tick)
	defer ticker.Stop()
	deadline := time.NewTimer(t.opts.Duration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.advance(j)
		case <-deadline.C:
			err := materialize(ctx, j)
			t.finish(j, err)
			return
		}
	}
}

// claim 进入落地阶段，之后不再响应取消
func (t *GenerationTracker) claim(j *generationJob) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j.snap.State != JobRunning {
		return false
	}
	j.commit = true
	return true
}

func (t *GenerationTracker) advance(j *generationJob) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j.snap.State != JobRunning || j.commit {
		return
	}
	j.ticks++
	j.snap.Progress = min(j.snap.Progress+1+t.rand(10), maxRunningProgress)
	j.snap.Status = statusFor(j.snap.Progress)
	j.snap.Tip = generationTips[(j.ticks/t.opts.TipEvery)%len(generationTips)]
}

func (t *GenerationTracker) finish(j *generationJob, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j.snap.State != JobRunning {
		return
	}
	j.ended = t.now()
	switch {
	case err == nil:
		j.snap.State = JobDone
		j.snap.Progress = 100
		j.snap.Status = "完成"
		t.log.Infof("generation job done: id=%s kind=%s", j.snap.ID, j.snap.Kind)
	case errors.Is(err, context.Canceled):
		j.snap.State = JobCanceled
	default:
		j.snap.State = JobFailed
		j.snap.Error = err.Error()
		t.log.Errorf("generation job failed: id=%s kind=%s err=%v", j.snap.ID, j.snap.Kind, err)
	}
}

func statusFor(progress int) string {
	switch {
	case progress < 30:
		return "分析主题"
	case progress < 60:
		return "生成内容"
	case progress < 90:
		return "优化配图"
	}
	return "即将完成"
}

// sweep 清掉结束超过 Retain 的任务，调用方持有 t.mu
func (t *GenerationTracker) sweep() {
	now := t.now()
	for id, j := range t.jobs {
		if j.snap.State != JobRunning && now.Sub(j.ended) >= t.opts.Retain {
			delete(t.jobs, id)
		}
	}
}

// Get 任务快照
func (t *GenerationTracker) Get(id string) (JobSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweep()
	j, ok := t.jobs[id]
	if !ok {
		return JobSnapshot{}, errJobNotFound(id)
	}
	s := j.snap
	s.ContentIDs = append([]string(nil), j.snap.ContentIDs...)
	return s, nil
}

// Cancel 关闭进度面板：停止任务，已进入落地阶段的任务不受影响
func (t *GenerationTracker) Cancel(id string) (JobSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[id]
	if !ok {
		return JobSnapshot{}, errJobNotFound(id)
	}
	if j.snap.State == JobRunning && !j.commit {
		j.snap.State = JobCanceled
		j.ended = t.now()
		j.cancel()
		t.log.Infof("generation job canceled: id=%s progress=%d", id, j.snap.Progress)
	}
	return j.snap, nil
}

// Close 取消全部运行中的任务并等待其退出
func (t *GenerationTracker) Close() {
	t.mu.Lock()
	t.closed = true
	for _, j := range t.jobs {
		if j.snap.State == JobRunning && !j.commit {
			j.snap.State = JobCanceled
			j.ended = t.now()
			j.cancel()
		}
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func errJobNotFound(id string) error {
	return errors.NotFound(ReasonJobNotFound, "generation job not found").WithMetadata(map[string]string{"id": id})
}
