package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/metrics"
	"github.com/pavelzhukov/transaction-ingest/internal/middlewares"
	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

// TransactionEnqueuer defines the queue producer interface the handler needs.
type TransactionEnqueuer interface {
	Enqueue(ctx context.Context, id string, payload any) (bool, error)
}

// CreateTransactionResponse acknowledges an accepted ingestion request. The
// transaction itself is persisted asynchronously.
// swagger:model CreateTransactionResponse
type CreateTransactionResponse struct {
	// Acknowledgment message
	// default: Transaction accepted for processing
	Message string `json:"message"`

	// External transaction id, which is also the queue job id
	TransactionID string `json:"transaction_id"`

	// False when an identical job was already queued (idempotent no-op)
	Queued bool `json:"queued"`
}

// CreateTransactionErrorResponse represents an error response for transaction creation
// swagger:model CreateTransactionErrorResponse
type CreateTransactionErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewCreateTransactionHandler returns an HTTP handler that validates an
// ingestion request and enqueues it. Validation failures never enter the
// queue; duplicates are absorbed by the queue's job-id dedup.
// @Summary Ingest a transaction
// @Description Validates the payload and enqueues it for asynchronous processing. Returns a job acknowledgment, not the persisted row. Repeated submissions with the same transaction_id are idempotent.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body models.CreateTransactionRequest true "Transaction payload"
// @Success 202 {object} handlers.CreateTransactionResponse "Accepted for processing"
// @Failure 400 {object} handlers.CreateTransactionErrorResponse "Invalid payload"
// @Failure 500 {object} handlers.CreateTransactionErrorResponse "Enqueue failure"
// @Router /transactions [post]
func NewCreateTransactionHandler(producer TransactionEnqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reqID := middlewares.RequestIDFromContext(ctx)

		var req models.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode create transaction request", "request_id", reqID, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreateTransactionErrorResponse{Error: "Invalid request body"})
			return
		}

		if err := req.Validate(); err != nil {
			logger.Log.Warnw("invalid create transaction request", "request_id", reqID, "external_id", req.TransactionID, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreateTransactionErrorResponse{Error: err.Error()})
			return
		}

		queued, err := producer.Enqueue(ctx, req.TransactionID, req)
		if err != nil {
			logger.Log.Errorw("failed to enqueue transaction", "request_id", reqID, "external_id", req.TransactionID, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(CreateTransactionErrorResponse{Error: "Internal server error"})
			return
		}

		if queued {
			metrics.JobsEnqueued.WithLabelValues("enqueued").Inc()
		} else {
			metrics.JobsEnqueued.WithLabelValues("deduplicated").Inc()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(CreateTransactionResponse{
			Message:       "Transaction accepted for processing",
			TransactionID: req.TransactionID,
			Queued:        queued,
		})
	}
}
