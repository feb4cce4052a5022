package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

func TestCreateTransactionHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(producer *MockTransactionEnqueuer)
		wantStatus int
		wantBody   func(t *testing.T, body []byte)
	}{
		{
			name: "accepted",
			body: `{"transaction_id":"ext-1","amount":"12.34","currency":"USD","kind":"credit"}`,
			setupMocks: func(producer *MockTransactionEnqueuer) {
				producer.EXPECT().
					Enqueue(gomock.Any(), "ext-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, payload any) (bool, error) {
						req, ok := payload.(models.CreateTransactionRequest)
						assert.True(t, ok)
						assert.Equal(t, "12.34", req.Amount.String())
						return true, nil
					})
			},
			wantStatus: http.StatusAccepted,
			wantBody: func(t *testing.T, body []byte) {
				var resp CreateTransactionResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "ext-1", resp.TransactionID)
				assert.True(t, resp.Queued)
			},
		},
		{
			name: "duplicate submission acknowledged without re-queueing",
			body: `{"transaction_id":"ext-1","amount":"12.34","currency":"USD","kind":"credit"}`,
			setupMocks: func(producer *MockTransactionEnqueuer) {
				producer.EXPECT().Enqueue(gomock.Any(), "ext-1", gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusAccepted,
			wantBody: func(t *testing.T, body []byte) {
				var resp CreateTransactionResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.False(t, resp.Queued)
			},
		},
		{
			name:       "malformed json",
			body:       `{not json`,
			setupMocks: func(producer *MockTransactionEnqueuer) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing transaction id",
			body:       `{"amount":"12.34","currency":"USD","kind":"credit"}`,
			setupMocks: func(producer *MockTransactionEnqueuer) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-positive amount",
			body:       `{"transaction_id":"ext-2","amount":"0","currency":"USD","kind":"credit"}`,
			setupMocks: func(producer *MockTransactionEnqueuer) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported currency",
			body:       `{"transaction_id":"ext-3","amount":"1.00","currency":"JPY","kind":"credit"}`,
			setupMocks: func(producer *MockTransactionEnqueuer) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "enqueue failure",
			body: `{"transaction_id":"ext-4","amount":"1.00","currency":"USD","kind":"debit"}`,
			setupMocks: func(producer *MockTransactionEnqueuer) {
				producer.EXPECT().Enqueue(gomock.Any(), "ext-4", gomock.Any()).Return(false, errors.New("redis down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			producer := NewMockTransactionEnqueuer(ctrl)
			tt.setupMocks(producer)

			handler := NewCreateTransactionHandler(producer)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != nil {
				tt.wantBody(t, rr.Body.Bytes())
			}
		})
	}
}
