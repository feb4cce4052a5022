package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

// TransactionWriter defines the write operations the service needs.
type TransactionWriter interface {
	CreateOrGet(ctx context.Context, txn models.TransactionDB) (*models.TransactionDB, bool, error)       // Inserts or returns the existing row for the external id
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.TransactionDB, error)         // Transitions a row out of pending
}

// TransactionReader defines the read operations the service needs.
type TransactionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TransactionDB, error)                             // Point lookup by internal id
	GetByExternalID(ctx context.Context, externalID string) (*models.TransactionDB, error)                // Point lookup by external id
	List(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionDB, int64, error)     // Filtered, paginated listing
}

// TransactionService is thin orchestration over the repositories. Ingestion is
// idempotent by design: creating an already-known external id returns the
// existing row and is never a conflict.
type TransactionService struct {
	writeRepo TransactionWriter
	readRepo  TransactionReader
}

func NewTransactionService(writeRepo TransactionWriter, readRepo TransactionReader) *TransactionService {
	return &TransactionService{writeRepo: writeRepo, readRepo: readRepo}
}

// Create persists a new pending transaction for the request, or returns the
// existing row if one with the same external id was created earlier or
// concurrently. Replays may observe the row in any status.
func (s *TransactionService) Create(ctx context.Context, req models.CreateTransactionRequest) (*models.TransactionDB, error) {
	candidate := models.TransactionDB{
		ID:         uuid.New(),
		ExternalID: req.TransactionID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Kind:       req.Kind,
		Status:     models.StatusPending,
		Metadata:   req.Metadata,
	}

	txn, created, err := s.writeRepo.CreateOrGet(ctx, candidate)
	if err != nil {
		logger.Log.Errorw("failed to create transaction", "external_id", req.TransactionID, "error", err)
		return nil, err
	}

	if created {
		logger.Log.Infow("transaction created", "id", txn.ID, "external_id", txn.ExternalID)
	} else {
		logger.Log.Infow("transaction already exists, returning existing row",
			"id", txn.ID, "external_id", txn.ExternalID, "status", txn.Status)
	}
	return txn, nil
}

// GetByID returns the transaction with the given internal id, or nil if absent.
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*models.TransactionDB, error) {
	return s.readRepo.GetByID(ctx, id)
}

// GetByExternalID returns the transaction with the given external id, or nil if absent.
func (s *TransactionService) GetByExternalID(ctx context.Context, externalID string) (*models.TransactionDB, error) {
	return s.readRepo.GetByExternalID(ctx, externalID)
}

// List returns a filtered page of transactions and the total count.
func (s *TransactionService) List(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionDB, int64, error) {
	return s.readRepo.List(ctx, filter)
}

// UpdateStatus transitions a transaction out of pending. Used only by the job
// processor.
func (s *TransactionService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.TransactionDB, error) {
	return s.writeRepo.UpdateStatus(ctx, id, status)
}
