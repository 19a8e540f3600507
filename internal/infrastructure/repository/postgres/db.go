package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates all tables. Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082301)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS lectures (
	id TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	stored_filename TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	page_count INTEGER NOT NULL DEFAULT 0,
	uploaded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lectures_uploaded_at ON lectures(uploaded_at DESC);

CREATE TABLE IF NOT EXISTS glossary_cache (
	lecture_id TEXT NOT NULL REFERENCES lectures(id) ON DELETE CASCADE,
	page_key TEXT NOT NULL,
	items JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (lecture_id, page_key)
);

CREATE TABLE IF NOT EXISTS lecture_notes (
	lecture_id TEXT PRIMARY KEY REFERENCES lectures(id) ON DELETE CASCADE,
	content TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS note_images (
	id TEXT PRIMARY KEY,
	lecture_id TEXT NOT NULL REFERENCES lectures(id) ON DELETE CASCADE,
	original_filename TEXT NOT NULL,
	stored_filename TEXT NOT NULL,
	content_type TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_note_images_lecture ON note_images(lecture_id, uploaded_at);

CREATE TABLE IF NOT EXISTS dictionary_terms (
	id TEXT PRIMARY KEY,
	term TEXT NOT NULL,
	definition TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	lecture_id TEXT REFERENCES lectures(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_dictionary_terms_term ON dictionary_terms(LOWER(term));
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
