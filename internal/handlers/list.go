package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

// TransactionLister defines the listing interface the handler needs.
type TransactionLister interface {
	List(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionDB, int64, error)
}

// ListTransactionsResponse is a page of transactions.
// swagger:model ListTransactionsResponse
type ListTransactionsResponse struct {
	Transactions []models.TransactionDB `json:"transactions"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Limit        int                    `json:"limit"`
}

// ListTransactionsErrorResponse represents an error response for transaction listing
// swagger:model ListTransactionsErrorResponse
type ListTransactionsErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewListTransactionsHandler returns an HTTP handler for the filtered,
// paginated listing.
// @Summary List transactions
// @Description Returns transactions filtered by status, kind and creation date range, newest first.
// @Tags transactions
// @Produce json
// @Param status query string false "pending | completed | failed"
// @Param kind query string false "credit | debit"
// @Param from query string false "created_at lower bound, RFC 3339"
// @Param to query string false "created_at upper bound, RFC 3339"
// @Param page query int false "1-based page number" default(1)
// @Param limit query int false "page size, 1-100" default(20)
// @Success 200 {object} handlers.ListTransactionsResponse
// @Failure 400 {object} handlers.ListTransactionsErrorResponse "Malformed filter"
// @Router /transactions [get]
func NewListTransactionsHandler(svc TransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		filter := models.TransactionFilter{
			Status: q.Get("status"),
			Kind:   q.Get("kind"),
		}

		if v := q.Get("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ListTransactionsErrorResponse{Error: "Invalid from date, expected RFC 3339"})
				return
			}
			filter.From = &t
		}
		if v := q.Get("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ListTransactionsErrorResponse{Error: "Invalid to date, expected RFC 3339"})
				return
			}
			filter.To = &t
		}

		filter.Page, _ = strconv.Atoi(q.Get("page"))
		filter.Limit, _ = strconv.Atoi(q.Get("limit"))
		filter.Normalize()

		txns, total, err := svc.List(ctx, filter)
		if err != nil {
			logger.Log.Errorw("failed to list transactions", "filter", filter, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListTransactionsErrorResponse{Error: "Internal server error"})
			return
		}

		if txns == nil {
			txns = []models.TransactionDB{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListTransactionsResponse{
			Transactions: txns,
			Total:        total,
			Page:         filter.Page,
			Limit:        filter.Limit,
		})
	}
}
