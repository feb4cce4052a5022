package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

func TestListTransactionsHandler(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setupMocks func(svc *MockTransactionLister)
		wantStatus int
		wantBody   func(t *testing.T, body []byte)
	}{
		{
			name:  "defaults applied",
			query: "",
			setupMocks: func(svc *MockTransactionLister) {
				svc.EXPECT().
					List(gomock.Any(), models.TransactionFilter{Page: 1, Limit: 20}).
					Return([]models.TransactionDB{{ID: uuid.New()}}, int64(1), nil)
			},
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body []byte) {
				var resp ListTransactionsResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Len(t, resp.Transactions, 1)
				assert.Equal(t, int64(1), resp.Total)
				assert.Equal(t, 1, resp.Page)
				assert.Equal(t, 20, resp.Limit)
			},
		},
		{
			name:  "status, kind and date filters forwarded",
			query: "?status=completed&kind=debit&from=2026-08-01T00:00:00Z&page=2&limit=5",
			setupMocks: func(svc *MockTransactionLister) {
				svc.EXPECT().
					List(gomock.Any(), models.TransactionFilter{
						Status: models.StatusCompleted,
						Kind:   models.KindDebit,
						From:   &from,
						Page:   2,
						Limit:  5,
					}).
					Return(nil, int64(0), nil)
			},
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body []byte) {
				var resp ListTransactionsResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				// A nil page serializes as an empty array, not null.
				assert.NotNil(t, resp.Transactions)
				assert.Len(t, resp.Transactions, 0)
			},
		},
		{
			name:       "bad from date",
			query:      "?from=yesterday",
			setupMocks: func(svc *MockTransactionLister) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad to date",
			query:      "?to=2026-13-99",
			setupMocks: func(svc *MockTransactionLister) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "oversized limit clamped",
			query: "?limit=1000",
			setupMocks: func(svc *MockTransactionLister) {
				svc.EXPECT().
					List(gomock.Any(), models.TransactionFilter{Page: 1, Limit: 100}).
					Return([]models.TransactionDB{}, int64(0), nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockTransactionLister(ctrl)
			tt.setupMocks(svc)

			handler := NewListTransactionsHandler(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions"+tt.query, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != nil {
				tt.wantBody(t, rr.Body.Bytes())
			}
		})
	}
}
