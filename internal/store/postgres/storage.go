// Package postgres implements the remote relational data service: named
// tables with per-row create/update/soft-delete and equality filtering.
// Every statement filters by business_id; the scope column is part of each
// table precisely because an unscoped write can leak option values across
// unrelated businesses.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	pool *pgxpool.Pool
}

type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			production_area TEXT NOT NULL DEFAULT '',
			ingredients TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_business ON menu_items (business_id)`,

		`CREATE TABLE IF NOT EXISTS option_groups (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			owner_item_id TEXT,
			name TEXT NOT NULL,
			is_required BOOLEAN NOT NULL DEFAULT FALSE,
			is_replacement BOOLEAN NOT NULL DEFAULT FALSE,
			min_selection INT NOT NULL DEFAULT 0,
			max_selection INT NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_option_groups_owner ON option_groups (business_id, owner_item_id)`,

		`CREATE TABLE IF NOT EXISTS option_values (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			group_id TEXT NOT NULL,
			name TEXT NOT NULL,
			price_adjustment DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_default BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_option_values_group ON option_values (business_id, group_id)`,

		`CREATE TABLE IF NOT EXISTS item_group_links (
			item_id TEXT NOT NULL,
			group_id TEXT NOT NULL,
			business_id TEXT NOT NULL,
			PRIMARY KEY (item_id, group_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_item_group_links_group ON item_group_links (business_id, group_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}
