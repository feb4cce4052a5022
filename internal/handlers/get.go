package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

// TransactionGetter defines the lookup interface the handler needs.
type TransactionGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TransactionDB, error)
}

// GetTransactionErrorResponse represents an error response for transaction lookup
// swagger:model GetTransactionErrorResponse
type GetTransactionErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewGetTransactionHandler returns an HTTP handler for point lookup by internal id.
// @Summary Get a transaction
// @Description Returns the transaction with the given internal id.
// @Tags transactions
// @Produce json
// @Param id path string true "Internal transaction id (UUID)"
// @Success 200 {object} models.TransactionDB
// @Failure 400 {object} handlers.GetTransactionErrorResponse "Malformed id"
// @Failure 404 {object} handlers.GetTransactionErrorResponse "Not found"
// @Router /transactions/{id} [get]
func NewGetTransactionHandler(svc TransactionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(GetTransactionErrorResponse{Error: "Invalid transaction id"})
			return
		}

		txn, err := svc.GetByID(ctx, id)
		if err != nil {
			logger.Log.Errorw("failed to get transaction", "id", id, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(GetTransactionErrorResponse{Error: "Internal server error"})
			return
		}
		if txn == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(GetTransactionErrorResponse{Error: "Transaction not found"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(txn)
	}
}
