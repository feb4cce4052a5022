package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pavelzhukov/transaction-ingest/internal/models"
)

func TestTransactionService_Create(t *testing.T) {
	req := models.CreateTransactionRequest{
		TransactionID: "ext-123",
		Amount:        decimal.RequireFromString("42.00"),
		Currency:      models.USD,
		Kind:          models.KindCredit,
		Metadata:      models.Metadata{"source": "api"},
	}

	tests := []struct {
		name    string
		setup   func(w *MockTransactionWriter)
		wantErr bool
	}{
		{
			name: "created",
			setup: func(w *MockTransactionWriter) {
				w.EXPECT().
					CreateOrGet(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, candidate models.TransactionDB) (*models.TransactionDB, bool, error) {
						assert.Equal(t, "ext-123", candidate.ExternalID)
						assert.Equal(t, models.StatusPending, candidate.Status)
						assert.NotEqual(t, uuid.Nil, candidate.ID)
						return &candidate, true, nil
					})
			},
		},
		{
			name: "dedup returns existing row",
			setup: func(w *MockTransactionWriter) {
				existing := &models.TransactionDB{
					ID:         uuid.New(),
					ExternalID: "ext-123",
					Status:     models.StatusCompleted,
				}
				w.EXPECT().CreateOrGet(gomock.Any(), gomock.Any()).Return(existing, false, nil)
			},
		},
		{
			name: "repository error",
			setup: func(w *MockTransactionWriter) {
				w.EXPECT().CreateOrGet(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := NewMockTransactionWriter(ctrl)
			reader := NewMockTransactionReader(ctrl)
			tt.setup(writer)

			svc := NewTransactionService(writer, reader)
			txn, err := svc.Create(context.Background(), req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, txn)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "ext-123", txn.ExternalID)
		})
	}
}

func TestTransactionService_Reads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockTransactionWriter(ctrl)
	reader := NewMockTransactionReader(ctrl)
	svc := NewTransactionService(writer, reader)

	id := uuid.New()
	row := &models.TransactionDB{ID: id, ExternalID: "ext-9"}

	reader.EXPECT().GetByID(gomock.Any(), id).Return(row, nil)
	got, err := svc.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, row, got)

	reader.EXPECT().GetByExternalID(gomock.Any(), "ext-9").Return(nil, nil)
	got, err = svc.GetByExternalID(context.Background(), "ext-9")
	assert.NoError(t, err)
	assert.Nil(t, got)

	filter := models.TransactionFilter{Status: models.StatusPending}
	reader.EXPECT().List(gomock.Any(), filter).Return([]models.TransactionDB{*row}, int64(1), nil)
	items, total, err := svc.List(context.Background(), filter)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
}

func TestTransactionService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockTransactionWriter(ctrl)
	reader := NewMockTransactionReader(ctrl)
	svc := NewTransactionService(writer, reader)

	id := uuid.New()
	writer.EXPECT().
		UpdateStatus(gomock.Any(), id, models.StatusCompleted).
		Return(&models.TransactionDB{ID: id, Status: models.StatusCompleted}, nil)

	txn, err := svc.UpdateStatus(context.Background(), id, models.StatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, txn.Status)
}
