package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pavelzhukov/transaction-ingest/internal/logger"
	"github.com/pavelzhukov/transaction-ingest/internal/queue"
)

// JobStateReader defines the per-job introspection interface the handler needs.
type JobStateReader interface {
	State(ctx context.Context, id string) (*queue.Job, error)
}

// QueueJobStatusResponse is the queue's view of a single job.
// swagger:model QueueJobStatusResponse
type QueueJobStatusResponse struct {
	// Job id, equal to the external transaction id
	JobID string `json:"job_id"`

	// waiting | active | completed | failed | delayed
	State string `json:"state"`

	AttemptsMade int    `json:"attempts_made"`
	MaxAttempts  int    `json:"max_attempts"`
	FailedReason string `json:"failed_reason,omitempty"`
}

// QueueStatusErrorResponse represents an error response for queue introspection
// swagger:model QueueStatusErrorResponse
type QueueStatusErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewQueueJobStatusHandler returns an HTTP handler for per-job queue introspection.
// @Summary Get queue job status
// @Description Returns the queue state of the job for the given external transaction id.
// @Tags queue
// @Produce json
// @Param transactionId path string true "External transaction id (job id)"
// @Success 200 {object} handlers.QueueJobStatusResponse
// @Failure 404 {object} handlers.QueueStatusErrorResponse "Unknown job"
// @Router /transactions/queue/{transactionId}/status [get]
func NewQueueJobStatusHandler(q JobStateReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "transactionId")

		job, err := q.State(ctx, id)
		if err != nil {
			if errors.Is(err, queue.ErrJobNotFound) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(QueueStatusErrorResponse{Error: "Job not found"})
				return
			}
			logger.Log.Errorw("failed to read job state", "job_id", id, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(QueueStatusErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(QueueJobStatusResponse{
			JobID:        job.ID,
			State:        job.State,
			AttemptsMade: job.AttemptsMade,
			MaxAttempts:  job.MaxAttempts,
			FailedReason: job.FailedReason,
		})
	}
}
