package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/metrics"
	"github.com/pavelzhukov/transaction-ingest/internal/models"
	"github.com/pavelzhukov/transaction-ingest/internal/queue"
	"github.com/pavelzhukov/transaction-ingest/internal/repositories"
	"github.com/segmentio/kafka-go"
)

// TransactionService defines the service operations the processor needs.
type TransactionService interface {
	Create(ctx context.Context, req models.CreateTransactionRequest) (*models.TransactionDB, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.TransactionDB, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.TransactionDB, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// TransactionEvent is published to Kafka when the processor drives a
// transaction to a terminal status.
type TransactionEvent struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Kind          string `json:"kind"`
	OccurredAt    int64  `json:"occurred_at"`
}

// Processor consumes transaction-create jobs. Delivery is at-least-once, so
// every step tolerates replays: creation is create-or-get, the completion write
// is guarded on pending, and a row already in a terminal status ends the job
// without re-triggering completion logic.
type Processor struct {
	svc         TransactionService
	kafkaWriter KafkaWriter
}

func NewProcessor(svc TransactionService, kafkaWriter KafkaWriter) *Processor {
	return &Processor{svc: svc, kafkaWriter: kafkaWriter}
}

// Process handles one delivered job. A returned error hands control to the
// queue's retry/backoff policy.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	var req models.CreateTransactionRequest
	if err := json.Unmarshal(job.Payload, &req); err != nil {
		// Payloads are validated before enqueue; a decode failure means the
		// stored job is corrupt. No row can exist yet, nothing to compensate.
		return fmt.Errorf("decode job payload: %w", err)
	}

	txn, err := p.svc.Create(ctx, req)
	if err != nil {
		p.compensate(ctx, req.TransactionID, err)
		return err
	}

	if txn.Status != models.StatusPending {
		// Replay of an already-finished job: benign, do not re-trigger
		// completion or failure logic.
		logger.Log.Infow("job replayed for finished transaction",
			"job_id", job.ID, "external_id", txn.ExternalID, "status", txn.Status)
		return nil
	}

	completed, err := p.svc.UpdateStatus(ctx, txn.ID, models.StatusCompleted)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyFinalized) {
			// Another processor finished the row between our read and write.
			logger.Log.Infow("transaction finalized concurrently",
				"job_id", job.ID, "external_id", txn.ExternalID)
			return nil
		}
		p.compensate(ctx, req.TransactionID, err)
		return err
	}

	metrics.TransactionsProcessed.WithLabelValues(models.StatusCompleted).Inc()
	p.publish(ctx, completed)

	logger.Log.Infow("transaction completed",
		"job_id", job.ID, "id", completed.ID, "external_id", completed.ExternalID)
	return nil
}

// compensate is the best-effort failure path: if a row exists and is still
// pending, mark it failed. Its own failure is logged and swallowed so it can
// neither mask the original error nor cause an infinite failure loop.
func (p *Processor) compensate(ctx context.Context, externalID string, cause error) {
	txn, err := p.svc.GetByExternalID(ctx, externalID)
	if err != nil {
		logger.Log.Errorw("compensating lookup failed",
			"external_id", externalID, "cause", cause, "error", err)
		return
	}
	if txn == nil || txn.Status != models.StatusPending {
		return
	}

	failed, err := p.svc.UpdateStatus(ctx, txn.ID, models.StatusFailed)
	if err != nil {
		logger.Log.Errorw("compensating failed-transition did not apply",
			"external_id", externalID, "cause", cause, "error", err)
		return
	}

	metrics.TransactionsProcessed.WithLabelValues(models.StatusFailed).Inc()
	p.publish(ctx, failed)

	logger.Log.Warnw("transaction marked failed",
		"id", failed.ID, "external_id", failed.ExternalID, "cause", cause)
}

// publish emits a terminal-status event to Kafka, best-effort.
func (p *Processor) publish(ctx context.Context, txn *models.TransactionDB) {
	if p.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "external_id", txn.ExternalID)
		return
	}

	event := TransactionEvent{
		TransactionID: txn.ExternalID,
		Status:        txn.Status,
		Amount:        txn.Amount.String(),
		Currency:      txn.Currency,
		Kind:          txn.Kind,
		OccurredAt:    time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal transaction event", "external_id", txn.ExternalID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(txn.ExternalID),
		Value: data,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish transaction event", "external_id", txn.ExternalID, "error", err)
	} else {
		logger.Log.Infow("transaction event published", "external_id", txn.ExternalID, "status", txn.Status)
	}
}
