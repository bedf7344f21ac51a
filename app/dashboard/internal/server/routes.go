package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/service"
)

const operationPrefix = "/content_ops.dashboard.v1.Dashboard/"

const (
	OperationLogin    = operationPrefix + "Login"
	OperationRegister = operationPrefix + "Register"
)

// publicOperations 不需要登录的接口
var publicOperations = map[string]struct{}{
	OperationLogin:    {},
	OperationRegister: {},
}

// handle 绑定请求、走中间件链、调用服务方法并输出 JSON
func handle[Req any, Reply any](name string, fn func(context.Context, *Req) (*Reply, error)) http.HandlerFunc {
	op := operationPrefix + name
	return func(ctx http.Context) error {
		var in Req
		if err := bind(ctx, &in); err != nil {
			return err
		}
		http.SetOperation(ctx, op)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

// bind 依次绑定 body、query、路径参数，后者覆盖前者
func bind(ctx http.Context, v interface{}) error {
	r := ctx.Request()
	if r.ContentLength != 0 && r.Header.Get("Content-Type") != "" {
		if err := ctx.Bind(v); err != nil {
			return err
		}
	}
	if err := ctx.BindQuery(v); err != nil {
		return err
	}
	return ctx.BindVars(v)
}

// RegisterDashboardHTTPServer 注册全部接口；静态路径要先于 {id} 路径注册
func RegisterDashboardHTTPServer(srv *http.Server, s *service.DashboardService) {
	r := srv.Route("/")

	r.POST("/auth/login", handle("Login", s.Login))
	r.POST("/auth/register", handle("Register", s.Register))
	r.GET("/user/info", handle("GetUserInfo", s.GetUserInfo))
	r.PUT("/user/info", handle("UpdateUserInfo", s.UpdateUserInfo))

	r.GET("/plan/list", handle("ListPlans", s.ListPlans))
	r.POST("/plan/create", handle("CreatePlan", s.CreatePlan))
	r.POST("/plan/single", handle("CreateSingleNote", s.CreateSingleNote))
	r.GET("/plan/suggest-count", handle("SuggestCount", s.SuggestCount))
	r.GET("/plan/active", handle("ActivePlan", s.ActivePlan))
	r.GET("/plan/calendar", handle("Calendar", s.Calendar))
	r.GET("/plan/timeline", handle("Timeline", s.Timeline))
	r.GET("/plan/schedule", handle("Schedule", s.Schedule))
	r.POST("/plan/generate", handle("Generate", s.Generate))
	r.GET("/plan/generation/{id}", handle("GetGeneration", s.GetGeneration))
	r.DELETE("/plan/generation/{id}", handle("CancelGeneration", s.CancelGeneration))
	r.GET("/plan/{id}", handle("GetPlan", s.GetPlan))
	r.PUT("/plan/{id}", handle("UpdatePlan", s.UpdatePlan))
	r.DELETE("/plan/{id}", handle("DeletePlan", s.DeletePlan))
	r.POST("/plan/{id}/select", handle("SelectPlan", s.SelectPlan))
	r.POST("/plan/{id}/confirm", handle("ConfirmPlan", s.ConfirmPlan))
	r.POST("/plan/{id}/notes", handle("AddNote", s.AddNote))
	r.PUT("/plan/{id}/notes/{noteId}", handle("EditNote", s.EditNote))
	r.DELETE("/plan/{id}/notes/{noteId}", handle("DeleteNote", s.DeleteNote))

	r.POST("/editor/open", handle("OpenEditor", s.OpenEditor))
	r.GET("/editor/{id}", handle("GetEditor", s.GetEditor))
	r.PUT("/editor/{id}", handle("UpdateEditor", s.UpdateEditor))
	r.DELETE("/editor/{id}", handle("CloseEditor", s.CloseEditor))
	r.POST("/editor/{id}/next", handle("NextNote", s.NextNote))
	r.POST("/editor/{id}/prev", handle("PrevNote", s.PrevNote))
	r.POST("/editor/{id}/adjust", handle("AdjustNote", s.AdjustNote))
	r.POST("/editor/{id}/save", handle("SaveEditor", s.SaveEditor))

	r.GET("/content/list", handle("ListContents", s.ListContents))
	r.POST("/content/create", handle("CreateContent", s.CreateContent))
	r.POST("/content/batch", handle("BatchContents", s.BatchContents))
	r.GET("/content/calendar", handle("ContentCalendar", s.ContentCalendar))
	r.PUT("/content/{id}", handle("UpdateContent", s.UpdateContent))
	r.DELETE("/content/{id}", handle("DeleteContent", s.DeleteContent))

	r.GET("/moment/list", handle("ListMoments", s.ListMoments))
	r.POST("/moment/create", handle("CreateMoment", s.CreateMoment))
	r.POST("/moment/generate", handle("GenerateMoment", s.GenerateMoment))
	r.PUT("/moment/{id}", handle("UpdateMoment", s.UpdateMoment))
	r.DELETE("/moment/{id}", handle("DeleteMoment", s.DeleteMoment))
	r.POST("/moment/{id}/sent", handle("MarkMomentSent", s.MarkMomentSent))

	r.GET("/account/list", handle("ListAccounts", s.ListAccounts))
	r.POST("/account/create", handle("CreateAccount", s.CreateAccount))
	r.GET("/account/overview", handle("AccountOverview", s.AccountOverview))
	r.GET("/account/{id}", handle("GetAccount", s.GetAccount))
}
