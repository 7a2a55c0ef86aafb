package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"panorama-api/infrastructure/logger"
)

// EnsurePanoramaSchema creates every table this service persists to if it is
// missing. Safe to call at startup; all statements are idempotent.
func EnsurePanoramaSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			user_name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS panorama_images (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			original_url TEXT NOT NULL,
			processed_url TEXT,
			thumbnail_url TEXT,
			preview_url TEXT,
			panel_count INT,
			title TEXT NOT NULL,
			location_name TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			date_taken TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			adjustments JSONB,
			instagram_post_id TEXT,
			posted_at TIMESTAMPTZ,
			archived_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS panorama_panels (
			id SERIAL PRIMARY KEY,
			panorama_image_id TEXT NOT NULL,
			panel_order INT NOT NULL,
			panel_url TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			usage_count INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS image_tags (
			image_id TEXT NOT NULL,
			tag_id INT NOT NULL,
			PRIMARY KEY (image_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS instagram_post_history (
			id SERIAL PRIMARY KEY,
			panorama_id TEXT NOT NULL,
			caption TEXT NOT NULL,
			status TEXT NOT NULL,
			instagram_post_id TEXT,
			posted_by TEXT NOT NULL,
			posted_at TIMESTAMPTZ NOT NULL,
			result_payload JSONB,
			error_message TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS instagram_credentials (
			id SERIAL PRIMARY KEY,
			access_token TEXT NOT NULL,
			token_hint TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			instagram_business_account_id TEXT,
			notes TEXT,
			updated_by TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure panorama schema: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_panorama_images_status_date ON panorama_images (status, date_taken DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_panorama_panels_image ON panorama_panels (panorama_image_id, panel_order)`,
		`CREATE INDEX IF NOT EXISTS idx_instagram_post_history_panorama ON instagram_post_history (panorama_id, posted_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("failed creating index")
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureCredentialColumns adds columns introduced after the first release of
// the credentials table. Conditional ALTER TABLE, metadata lookup first.
func EnsureCredentialColumns(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"instagram_credentials", "notes", "ALTER TABLE instagram_credentials ADD COLUMN notes TEXT"},
		{"instagram_credentials", "instagram_business_account_id", "ALTER TABLE instagram_credentials ADD COLUMN instagram_business_account_id TEXT"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}
