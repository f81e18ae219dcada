package postgres

import (
	"context"
	"fmt"
)

// SchemaVersion is the latest schema version applied by Migrate.
const SchemaVersion = 1

var migrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS diagnosis_history (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			symptoms TEXT NOT NULL,
			disease TEXT NOT NULL,
			confidence INTEGER NOT NULL CHECK (confidence BETWEEN 0 AND 100),
			session_id TEXT NOT NULL,
			image_url TEXT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnosis_history_session_created
			ON diagnosis_history (session_id, created_at DESC)`,
	},
}

// Migrate brings the schema up to SchemaVersion. Each version is applied in
// its own transaction.
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`,
	); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := c.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`,
	).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	for version := current + 1; version <= SchemaVersion; version++ {
		if err := c.apply(ctx, version); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) apply(ctx context.Context, version int) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin version %d: %w", version, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range migrations[version] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: version %d: %w", version, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("migrate: record version %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit version %d: %w", version, err)
	}
	return nil
}
