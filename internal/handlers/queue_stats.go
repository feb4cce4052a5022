package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/queue"
)

// QueueCounter defines the aggregate introspection interface the handler needs.
type QueueCounter interface {
	Counts(ctx context.Context) (queue.Counts, error)
}

// QueueStatsErrorResponse represents an error response for queue stats
// swagger:model QueueStatsErrorResponse
type QueueStatsErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewQueueStatsHandler returns an HTTP handler for aggregate queue counts.
// @Summary Get queue stats
// @Description Returns the current number of waiting, active, completed, failed and delayed jobs.
// @Tags queue
// @Produce json
// @Success 200 {object} queue.Counts
// @Failure 500 {object} handlers.QueueStatsErrorResponse
// @Router /transactions/queue/stats [get]
func NewQueueStatsHandler(q QueueCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := q.Counts(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to read queue counts", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(QueueStatsErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(counts)
	}
}
