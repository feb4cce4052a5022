package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

func TestGetTransactionHandler(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		setupMocks func(svc *MockTransactionGetter)
		wantStatus int
		wantBody   func(t *testing.T, body []byte)
	}{
		{
			name: "found",
			path: "/api/v1/transactions/" + id.String(),
			setupMocks: func(svc *MockTransactionGetter) {
				svc.EXPECT().GetByID(gomock.Any(), id).Return(&models.TransactionDB{
					ID:         id,
					ExternalID: "ext-1",
					Status:     models.StatusCompleted,
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: func(t *testing.T, body []byte) {
				var txn models.TransactionDB
				assert.NoError(t, json.Unmarshal(body, &txn))
				assert.Equal(t, id, txn.ID)
				assert.Equal(t, models.StatusCompleted, txn.Status)
			},
		},
		{
			name: "not found",
			path: "/api/v1/transactions/" + id.String(),
			setupMocks: func(svc *MockTransactionGetter) {
				svc.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			path:       "/api/v1/transactions/not-a-uuid",
			setupMocks: func(svc *MockTransactionGetter) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "lookup failure",
			path: "/api/v1/transactions/" + id.String(),
			setupMocks: func(svc *MockTransactionGetter) {
				svc.EXPECT().GetByID(gomock.Any(), id).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockTransactionGetter(ctrl)
			tt.setupMocks(svc)

			router := chi.NewRouter()
			router.Get("/api/v1/transactions/{id}", NewGetTransactionHandler(svc))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != nil {
				tt.wantBody(t, rr.Body.Bytes())
			}
		})
	}
}
