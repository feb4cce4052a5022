package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

const transactionColumns = `transaction_id, external_id, amount, currency, kind, status, metadata, created_at, updated_at`

// DefaultLockWait bounds how long CreateOrGet waits for the row lock before
// surfacing a retryable error instead of hanging.
const DefaultLockWait = 5 * time.Second

// TransactionWriteRepository handles transaction write operations.
type TransactionWriteRepository struct {
	db       *sqlx.DB
	lockWait time.Duration
}

func NewTransactionWriteRepository(db *sqlx.DB, lockWait time.Duration) *TransactionWriteRepository {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &TransactionWriteRepository{db: db, lockWait: lockWait}
}

// CreateOrGet inserts the candidate row or returns the existing row with the
// same external id. The returned bool reports whether a row was inserted.
//
// Concurrent callers targeting the same external id are serialized by the
// SELECT ... FOR UPDATE row lock; the unique constraint on external_id is the
// fallback for the window before the first writer's row is visible.
func (r *TransactionWriteRepository) CreateOrGet(ctx context.Context, txn models.TransactionDB) (*models.TransactionDB, bool, error) {
	const selectForUpdate = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE external_id = $1
		FOR UPDATE
	`
	const insert = `
		INSERT INTO transactions (transaction_id, external_id, amount, currency, kind, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + transactionColumns

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin create-or-get: %w", err)
	}
	defer tx.Rollback()

	// Bounded lock wait: a timeout surfaces as a retryable error, not a hang.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockWait.Milliseconds())); err != nil {
		return nil, false, fmt.Errorf("set lock_timeout: %w", err)
	}

	var existing models.TransactionDB
	err = tx.GetContext(ctx, &existing, selectForUpdate, txn.ExternalID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(selectForUpdate), " "),
		"args", []any{txn.ExternalID},
		"error", err,
	)

	if err == nil {
		// Idempotent replay: the row already exists, return it unchanged.
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit create-or-get: %w", err)
		}
		return &existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	var created models.TransactionDB
	err = tx.GetContext(ctx, &created, insert,
		txn.ID, txn.ExternalID, txn.Amount, txn.Currency, txn.Kind, txn.Status, txn.Metadata,
	)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(insert), " "),
		"args", []any{txn.ID, txn.ExternalID, txn.Amount, txn.Currency, txn.Kind, txn.Status},
		"error", err,
	)

	if err != nil {
		if isUniqueViolation(err) {
			// A second writer won the race between the locked select and the
			// insert. Abort and return the winner's row.
			_ = tx.Rollback()

			var winner models.TransactionDB
			err := r.db.GetContext(ctx, &winner, `SELECT `+transactionColumns+` FROM transactions WHERE external_id = $1`, txn.ExternalID)
			if errors.Is(err, sql.ErrNoRows) {
				return nil, false, fmt.Errorf("external_id %s: %w", txn.ExternalID, ErrInconsistentState)
			}
			if err != nil {
				return nil, false, err
			}
			return &winner, false, nil
		}
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit create-or-get: %w", err)
	}
	return &created, true, nil
}

// UpdateStatus transitions a row out of pending. The guard on the current
// status makes the pending -> completed and pending -> failed transitions
// at-most-once under concurrent processors.
func (r *TransactionWriteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.TransactionDB, error) {
	const update = `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'pending'
		RETURNING ` + transactionColumns

	var updated models.TransactionDB
	err := r.db.GetContext(ctx, &updated, update, id, status)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(update), " "),
		"args", []any{id, status},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)`, id); err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("transaction %s: %w", id, ErrAlreadyFinalized)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// TransactionReadRepository handles transaction read operations.
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// GetByID retrieves a transaction by its internal id. Returns (nil, nil) on a clean miss.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TransactionDB, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`

	var txn models.TransactionDB
	err := r.db.GetContext(ctx, &txn, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetByExternalID retrieves a transaction by its external id. Returns (nil, nil) on a clean miss.
func (r *TransactionReadRepository) GetByExternalID(ctx context.Context, externalID string) (*models.TransactionDB, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE external_id = $1`

	var txn models.TransactionDB
	err := r.db.GetContext(ctx, &txn, query, externalID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{externalID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// List returns a filtered page of transactions ordered by creation time
// descending, plus the total row count for the filter.
func (r *TransactionReadRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionDB, int64, error) {
	filter.Normalize()

	const where = `
		WHERE ($1::VARCHAR = '' OR status = $1)
		  AND ($2::VARCHAR = '' OR kind = $2)
		  AND ($3::TIMESTAMPTZ IS NULL OR created_at >= $3)
		  AND ($4::TIMESTAMPTZ IS NULL OR created_at <= $4)
	`
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + `
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`

	var txns []models.TransactionDB
	err := r.db.SelectContext(ctx, &txns, query,
		filter.Status, filter.Kind, filter.From, filter.To, filter.Limit, filter.Offset(),
	)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{filter.Status, filter.Kind, filter.From, filter.To, filter.Limit, filter.Offset()},
		"error", err,
	)

	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions` + where
	if err := r.db.GetContext(ctx, &total, countQuery,
		filter.Status, filter.Kind, filter.From, filter.To,
	); err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}
