package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/pavelzhukov/transaction-ingest/internal/queue"
)

func TestQueueStatsHandler(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(q *MockQueueCounter)
		wantStatus int
		wantBody   func(t *testing.T, body []byte)
	}{
		{
			name: "counts returned",
			setupMocks: func(q *MockQueueCounter) {
				q.EXPECT().Counts(gomock.Any()).Return(queue.Counts{
					Waiting:   3,
					Active:    1,
					Completed: 10,
					Failed:    2,
					Delayed:   1,
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body []byte) {
				var counts queue.Counts
				assert.NoError(t, json.Unmarshal(body, &counts))
				assert.Equal(t, int64(3), counts.Waiting)
				assert.Equal(t, int64(10), counts.Completed)
			},
		},
		{
			name: "redis failure",
			setupMocks: func(q *MockQueueCounter) {
				q.EXPECT().Counts(gomock.Any()).Return(queue.Counts{}, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			q := NewMockQueueCounter(ctrl)
			tt.setupMocks(q)

			handler := NewQueueStatsHandler(q)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/queue/stats", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != nil {
				tt.wantBody(t, rr.Body.Bytes())
			}
		})
	}
}
