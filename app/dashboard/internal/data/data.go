package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Data 数据层资源：postgres 模式下 db 非空；账号、朋友圈、内容库始终在内存中
type Data struct {
	db  *sql.DB
	mem *memStore
}

// NewData 按配置打开数据源
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data"))
	d := &Data{mem: newMemStore()}

	driver := DriverMemory
	if c != nil && c.Database != nil && c.Database.Driver != "" {
		driver = c.Database.Driver
	}
	switch driver {
	case DriverMemory:
		helper.Info("using in-memory storage")
		return d, func() {}, nil
	case DriverPostgres:
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	d.db = db

	cleanup := func() {
		helper.Info("closing the data resources")
		db.Close()
	}
	return d, cleanup, nil
}

func initSchema(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			nickname TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			count INTEGER NOT NULL,
			target_count INTEGER NOT NULL,
			account_id TEXT NOT NULL DEFAULT '',
			confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			content_type TEXT NOT NULL DEFAULT '',
			tone TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			scheduled_time TIMESTAMPTZ,
			platforms JSONB,
			PRIMARY KEY (plan_id, id)
		)`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}
