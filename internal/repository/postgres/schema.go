package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		gender         TEXT NOT NULL DEFAULT '',
		marital_status TEXT NOT NULL DEFAULT '',
		religion       TEXT NOT NULL DEFAULT '',
		gotra          TEXT NOT NULL DEFAULT '',
		area           TEXT NOT NULL DEFAULT '',
		state          TEXT NOT NULL DEFAULT '',
		height         TEXT NOT NULL DEFAULT '',
		complexion     TEXT NOT NULL DEFAULT '',
		native_place   TEXT NOT NULL DEFAULT '',
		date_of_birth  TEXT NOT NULL DEFAULT '',
		education      TEXT NOT NULL DEFAULT '',
		occupation     TEXT NOT NULL DEFAULT '',
		father_name    TEXT NOT NULL DEFAULT '',
		mother_name    TEXT NOT NULL DEFAULT '',
		contact_number TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		about          TEXT NOT NULL DEFAULT '',
		budget         TEXT NOT NULL DEFAULT '',
		budget_numeric DOUBLE PRECISION,
		photos         TEXT[] NOT NULL DEFAULT '{}',
		status         TEXT NOT NULL DEFAULT 'approved',
		source         TEXT NOT NULL DEFAULT 'admin',
		created_by     TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_people_created_at ON people (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_people_budget_numeric ON people (budget_numeric)`,
	`CREATE INDEX IF NOT EXISTS idx_people_status ON people (status)`,
}

// Migrate creates the tables and indexes when missing.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
