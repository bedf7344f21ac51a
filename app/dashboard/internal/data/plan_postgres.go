package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/lib/pq"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/biz"
	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

type pgPlanRepo struct {
	db  *sql.DB
	log *log.Helper
}

const planColumns = `id, name, start_date, end_date, count, target_count, account_id, confirmed, created_at`

func (r *pgPlanRepo) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planColumns+` FROM plans ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.Notes, err = r.loadNotes(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *pgPlanRepo) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, biz.ErrPlanNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	if p.Notes, err = r.loadNotes(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(s rowScanner) (*domain.Plan, error) {
	p := &domain.Plan{}
	err := s.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Count, &p.TargetCount, &p.AccountID, &p.Confirmed, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.StartDate = domain.DateOf(p.StartDate)
	p.EndDate = domain.DateOf(p.EndDate)
	return p, nil
}

func (r *pgPlanRepo) loadNotes(ctx context.Context, planID string) ([]*domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, image_url, content_type, tone, tags, scheduled_time, platforms
		FROM notes WHERE plan_id = $1 ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		var (
			n         domain.Note
			tags      []string
			scheduled sql.NullTime
			platforms []byte
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.ContentType, &n.Tone,
			pq.Array(&tags), &scheduled, &platforms); err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			n.Tags = tags
		}
		if scheduled.Valid {
			t := scheduled.Time
			n.ScheduledTime = &t
		}
		if len(platforms) > 0 {
			n.Platforms = &domain.Platforms{}
			if err := json.Unmarshal(platforms, n.Platforms); err != nil {
				return nil, fmt.Errorf("failed to decode platforms of note %s: %w", n.ID, err)
			}
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

// SavePlan 在一个事务内覆盖计划与全部笔记
func (r *pgPlanRepo) SavePlan(ctx context.Context, p *domain.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			count = EXCLUDED.count,
			target_count = EXCLUDED.target_count,
			account_id = EXCLUDED.account_id,
			confirmed = EXCLUDED.confirmed`,
		p.ID, p.Name, p.StartDate, p.EndDate, p.Count, p.TargetCount, p.AccountID, p.Confirmed, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert plan: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE plan_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	for i, n := range p.Notes {
		var platforms []byte
		if n.Platforms != nil {
			if platforms, err = json.Marshal(n.Platforms); err != nil {
				return err
			}
		}
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notes (plan_id, id, position, title, content, image_url, content_type, tone, tags, scheduled_time, platforms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			p.ID, n.ID, i, n.Title, n.Content, n.ImageURL, n.ContentType, n.Tone, pq.Array(tags), n.ScheduledTime, platforms)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}
	}
	return tx.Commit()
}

func (r *pgPlanRepo) DeletePlan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return biz.ErrPlanNotFound(id)
	}
	r.log.WithContext(ctx).Infof("plan deleted: %s", id)
	return nil
}
