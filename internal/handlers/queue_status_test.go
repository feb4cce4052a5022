package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/pavelzhukov/transaction-ingest/internal/queue"
)

func TestQueueJobStatusHandler(t *testing.T) {
	tests := []struct {
		name       string
		jobID      string
		setupMocks func(q *MockJobStateReader)
		wantStatus int
		wantBody   func(t *testing.T, body []byte)
	}{
		{
			name:  "delayed job with failure reason",
			jobID: "ext-1",
			setupMocks: func(q *MockJobStateReader) {
				q.EXPECT().State(gomock.Any(), "ext-1").Return(&queue.Job{
					ID:           "ext-1",
					State:        queue.StateDelayed,
					AttemptsMade: 2,
					MaxAttempts:  3,
					FailedReason: "db down",
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body []byte) {
				var resp QueueJobStatusResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "ext-1", resp.JobID)
				assert.Equal(t, queue.StateDelayed, resp.State)
				assert.Equal(t, 2, resp.AttemptsMade)
				assert.Equal(t, 3, resp.MaxAttempts)
				assert.Equal(t, "db down", resp.FailedReason)
			},
		},
		{
			name:  "unknown job",
			jobID: "never-seen",
			setupMocks: func(q *MockJobStateReader) {
				q.EXPECT().State(gomock.Any(), "never-seen").
					Return(nil, fmt.Errorf("job never-seen: %w", queue.ErrJobNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "redis failure",
			jobID: "ext-2",
			setupMocks: func(q *MockJobStateReader) {
				q.EXPECT().State(gomock.Any(), "ext-2").Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			q := NewMockJobStateReader(ctrl)
			tt.setupMocks(q)

			router := chi.NewRouter()
			router.Get("/api/v1/transactions/queue/{transactionId}/status", NewQueueJobStatusHandler(q))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/queue/"+tt.jobID+"/status", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != nil {
				tt.wantBody(t, rr.Body.Bytes())
			}
		})
	}
}
