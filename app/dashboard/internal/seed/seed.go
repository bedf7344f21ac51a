// Package seed 提供演示数据；数据在启动时显式写入仓库，而不是藏在各组件内部
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// Fixture 一组初始数据
type Fixture struct {
	Accounts []*domain.Account     `yaml:"accounts"`
	Plans    []*domain.Plan        `yaml:"plans"`
	Contents []*domain.ContentItem `yaml:"contents"`
	Moments  []*momentRecord       `yaml:"moments"`
}

// momentRecord domain.Moment 没有 yaml 标签，单独描述
type momentRecord struct {
	ID                string    `yaml:"id"`
	ImageURL          string    `yaml:"image_url"`
	Content           string    `yaml:"content"`
	Status            string    `yaml:"status"`
	ScheduledTime     time.Time `yaml:"scheduled_time"`
	SyncToXiaohongshu bool      `yaml:"sync_to_xiaohongshu"`
}

func (m *momentRecord) moment() *domain.Moment {
	status := domain.MomentStatus(m.Status)
	if status == "" {
		status = domain.MomentPending
	}
	return &domain.Moment{
		ID:                m.ID,
		ImageURL:          m.ImageURL,
		Content:           m.Content,
		Status:            status,
		ScheduledTime:     m.ScheduledTime,
		SyncToXiaohongshu: m.SyncToXiaohongshu,
	}
}

// LoadFile 从 YAML 文件读取初始数据
func LoadFile(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if err := fx.normalize(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return &fx, nil
}

// normalize 日期截断到日，计划篇数与笔记数对齐
func (fx *Fixture) normalize() error {
	for _, p := range fx.Plans {
		if p.ID == "" {
			return fmt.Errorf("plan without id")
		}
		if p.StartDate.IsZero() || p.EndDate.IsZero() || p.EndDate.Before(p.StartDate) {
			return fmt.Errorf("plan %s has an invalid date range", p.ID)
		}
		p.StartDate = domain.DateOf(p.StartDate)
		p.EndDate = domain.DateOf(p.EndDate)
		p.Count = len(p.Notes)
		if p.TargetCount == 0 {
			p.TargetCount = p.Count
		}
	}
	return nil
}

// Repos 需要写入的仓库
type Repos struct {
	Plans    biz.PlanRepo
	Accounts biz.AccountRepo
	Contents biz.ContentRepo
	Moments  biz.MomentRepo
}

// Apply 只在对应仓库为空时写入，重复启动不会重复写入
func Apply(ctx context.Context, fx *Fixture, r Repos) error {
	if r.Accounts != nil {
		existing, err := r.Accounts.ListAccounts(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, a := range fx.Accounts {
				if err := r.Accounts.CreateAccount(ctx, a); err != nil {
					return fmt.Errorf("seed account %s: %w", a.ID, err)
				}
			}
		}
	}
	if r.Plans != nil {
		existing, err := r.Plans.ListPlans(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, p := range fx.Plans {
				if err := r.Plans.SavePlan(ctx, p); err != nil {
					return fmt.Errorf("seed plan %s: %w", p.ID, err)
				}
			}
		}
	}
	if r.Contents != nil {
		existing, err := r.Contents.ListContents(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 && len(fx.Contents) > 0 {
			if err := r.Contents.SaveContents(ctx, fx.Contents...); err != nil {
				return fmt.Errorf("seed contents: %w", err)
			}
		}
	}
	if r.Moments != nil {
		existing, err := r.Moments.ListMoments(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, m := range fx.Moments {
				if err := r.Moments.SaveMoment(ctx, m.moment()); err != nil {
					return fmt.Errorf("seed moment %s: %w", m.ID, err)
				}
			}
		}
	}
	return nil
}
