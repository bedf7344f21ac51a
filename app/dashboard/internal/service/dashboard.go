package service

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
)

// DashboardService 把 HTTP 请求翻译成业务调用
type DashboardService struct {
	ucPlan     *biz.PlanUseCase
	ucSchedule *biz.ScheduleUseCase
	editors    *biz.EditorRegistry
	tracker    *biz.GenerationTracker
	ucContent  *biz.ContentUseCase
	ucMoment   *biz.MomentUseCase
	ucAccount  *biz.AccountUseCase
	ucUser     *biz.UserUseCase
	log        *log.Helper
}

func NewDashboardService(
	ucPlan *biz.PlanUseCase,
	ucSchedule *biz.ScheduleUseCase,
	editors *biz.EditorRegistry,
	tracker *biz.GenerationTracker,
	ucContent *biz.ContentUseCase,
	ucMoment *biz.MomentUseCase,
	ucAccount *biz.AccountUseCase,
	ucUser *biz.UserUseCase,
	logger log.Logger,
) *DashboardService {
	return &DashboardService{
		ucPlan:     ucPlan,
		ucSchedule: ucSchedule,
		editors:    editors,
		tracker:    tracker,
		ucContent:  ucContent,
		ucMoment:   ucMoment,
		ucAccount:  ucAccount,
		ucUser:     ucUser,
		log:        log.NewHelper(log.With(logger, "module", "service")),
	}
}

// Empty 无返回内容的接口
type Empty struct{}
