package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"

	"github.com/iWorld-y/content_ops/app/common/pkg/search/factory"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/assistant"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/data"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/material"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/notify"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/seed"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/server"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/service"
)

// initApp 按 data -> biz -> service -> server 的顺序组装
func initApp(bc *conf.Bootstrap, logger log.Logger) (*kratos.App, func(), error) {
	ctx := context.Background()
	helper := log.NewHelper(log.With(logger, "module", "main"))

	d, cleanup, err := data.NewData(bc.Data, logger)
	if err != nil {
		return nil, nil, err
	}
	planRepo := data.NewPlanRepo(d, logger)
	accountRepo := data.NewAccountRepo(d)
	contentRepo := data.NewContentRepo(d)
	momentRepo := data.NewMomentRepo(d)
	userRepo := data.NewUserRepo(d, logger)

	if err := applySeed(ctx, bc.Seed, seed.Repos{
		Plans:    planRepo,
		Accounts: accountRepo,
		Contents: contentRepo,
		Moments:  momentRepo,
	}); err != nil {
		cleanup()
		return nil, nil, err
	}

	contentAssistant, err := newAssistant(ctx, bc.Assistant, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	materials, err := newMaterialSource(bc.Material, logger)
	if err != nil {
		// 素材搜索是可选能力，配置错误时退回占位内容
		helper.Warnf("material source disabled: %v", err)
		materials = nil
	}

	ucAccount := biz.NewAccountUseCase(accountRepo, logger)
	ucPlan := biz.NewPlanUseCase(planRepo, accountRepo, newNotifier(bc.Notify, logger), logger)
	ucSchedule := biz.NewScheduleUseCase(planRepo)
	editors := biz.NewEditorRegistry(ucPlan, contentAssistant)
	ucContent := biz.NewContentUseCase(contentRepo, logger)
	ucMoment := biz.NewMomentUseCase(momentRepo, contentAssistant, logger)
	ucUser := biz.NewUserUseCase(userRepo, bc.Auth, logger)
	if err := ucUser.EnsureAdmin(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("ensure admin user: %w", err)
	}

	var genOpts biz.GenerationOptions
	if g := bc.Generation; g != nil {
		genOpts = biz.GenerationOptions{
			Duration: conf.ParseDuration(g.Duration, 0),
			Tick:     conf.ParseDuration(g.Tick, 0),
			TipEvery: int(g.TipEvery),
			Retain:   conf.ParseDuration(g.Retain, 0),
		}
	}
	// 接口变量不能直接接收 nil 指针
	var ms biz.MaterialSource
	if materials != nil {
		ms = materials
	}
	tracker := biz.NewGenerationTracker(ucPlan, ucContent, ms, genOpts, logger)

	svc := service.NewDashboardService(ucPlan, ucSchedule, editors, tracker, ucContent, ucMoment, ucAccount, ucUser, logger)
	hs := server.NewHTTPServer(bc.Server, ucUser.JwtKey(), svc, logger)
	servers := []transport.Server{hs}
	if bc.Server != nil && bc.Server.Grpc != nil && bc.Server.Grpc.Addr != "" {
		servers = append(servers, server.NewGRPCServer(bc.Server, logger))
	}

	app := newApp(logger, servers...)
	return app, func() {
		tracker.Close()
		cleanup()
	}, nil
}

func newApp(logger log.Logger, servers ...transport.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(servers...),
	)
}

func applySeed(ctx context.Context, c *conf.Seed, repos seed.Repos) error {
	if c == nil {
		return nil
	}
	var fx *seed.Fixture
	switch {
	case c.File != "":
		loaded, err := seed.LoadFile(c.File)
		if err != nil {
			return err
		}
		fx = loaded
	case c.Demo:
		fx = seed.Demo()
	default:
		return nil
	}
	return seed.Apply(ctx, fx, repos)
}

func newAssistant(ctx context.Context, c *conf.Assistant, logger log.Logger) (biz.ContentAssistant, error) {
	if c == nil || c.Provider == "" || c.Provider == "scripted" {
		return assistant.NewScripted(), nil
	}
	if c.Provider != "openai" {
		return nil, fmt.Errorf("unknown assistant provider %q", c.Provider)
	}
	return assistant.NewLLM(ctx, c, logger)
}

func newMaterialSource(c *conf.Material, logger log.Logger) (*material.Source, error) {
	if c == nil || !c.Enabled {
		return nil, nil
	}
	cfg := factory.Config{Provider: strings.ToLower(c.Provider)}
	if c.Tavily != nil {
		cfg.TavilyAPIKey = c.Tavily.ApiKey
	}
	if c.Searxng != nil {
		cfg.SearXNGBaseURL = c.Searxng.BaseUrl
		cfg.SearXNGTimeout = int(c.Searxng.Timeout)
	}
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, err
	}
	return material.NewSource(searcher, c.Enrich, logger), nil
}

func newNotifier(c *conf.Notify, logger log.Logger) biz.Notifier {
	if c != nil && c.Provider == "slack" && c.Slack != nil && c.Slack.Token != "" {
		return notify.NewSlack(c.Slack.Token, c.Slack.Channel)
	}
	return notify.NewLog(logger)
}
