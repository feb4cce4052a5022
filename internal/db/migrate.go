package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema for the transactions table. The unique constraint on external_id is
// the source of truth for idempotency under failure of the row-lock path; the
// created_at index backs the listing endpoint.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id UUID PRIMARY KEY,
		external_id VARCHAR(255) NOT NULL UNIQUE,
		amount NUMERIC(20,2) NOT NULL,
		currency CHAR(3) NOT NULL,
		kind VARCHAR(16) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at DESC);`,
}

// Migrate applies the schema at startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
