package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supported currency codes
const (
	USD = "USD"
	RUB = "RUB"
	EUR = "EUR"
)

// Transaction statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction kinds
const (
	KindCredit = "credit"
	KindDebit  = "debit"
)

// Metadata is an opaque key-value document attached to a transaction,
// stored as JSONB. Immutable after creation.
type Metadata map[string]any

// Value implements driver.Valuer for JSONB storage.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata source type %T", src)
	}
}

// TransactionDB represents a transaction row in the database.
type TransactionDB struct {
	ID         uuid.UUID       `json:"id" db:"transaction_id"`            // Internally generated unique identifier
	ExternalID string          `json:"transaction_id" db:"external_id"`   // Caller-supplied idempotency key, unique across all rows
	Amount     decimal.Decimal `json:"amount" db:"amount"`                // Positive amount with at most 2 fractional digits
	Currency   string          `json:"currency" db:"currency"`            // Currency code (USD, RUB, EUR)
	Kind       string          `json:"kind" db:"kind"`                    // credit or debit
	Status     string          `json:"status" db:"status"`                // pending, completed or failed
	Metadata   Metadata        `json:"metadata,omitempty" db:"metadata"`  // Optional opaque document
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`        // Timestamp when the row was inserted
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`        // Changes only on status transition
}

// CreateTransactionRequest is the payload accepted by the ingestion endpoint
// and carried by queue jobs.
// swagger:model CreateTransactionRequest
type CreateTransactionRequest struct {
	// Caller-supplied unique transaction identifier (idempotency key)
	// required: true
	// example: tx-2024-0001
	TransactionID string `json:"transaction_id"`

	// Amount; positive, at most 2 fractional digits
	// required: true
	// example: 100.50
	Amount decimal.Decimal `json:"amount"`

	// Currency code
	// required: true
	// example: USD
	Currency string `json:"currency"`

	// Transaction kind: credit or debit
	// required: true
	// example: credit
	Kind string `json:"kind"`

	// Optional opaque metadata
	Metadata Metadata `json:"metadata,omitempty"`
}

var (
	// ErrInvalidTransactionID is returned when the external transaction id is missing or too long.
	ErrInvalidTransactionID = errors.New("transaction_id must be a non-empty string of at most 255 characters")
	// ErrInvalidAmount is returned when the amount is not positive or has more than 2 fractional digits.
	ErrInvalidAmount = errors.New("amount must be positive with at most 2 fractional digits")
	// ErrInvalidCurrency is returned when the currency is not in the allow-list.
	ErrInvalidCurrency = errors.New("currency must be one of USD, RUB, EUR")
	// ErrInvalidKind is returned when the kind is neither credit nor debit.
	ErrInvalidKind = errors.New("kind must be credit or debit")
)

var validCurrencies = map[string]struct{}{
	USD: {},
	RUB: {},
	EUR: {},
}

// Validate checks the request synchronously, before anything is enqueued.
// Invalid payloads never enter the queue.
func (r CreateTransactionRequest) Validate() error {
	if r.TransactionID == "" || len(r.TransactionID) > 255 {
		return ErrInvalidTransactionID
	}
	if !r.Amount.IsPositive() || r.Amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	if _, ok := validCurrencies[r.Currency]; !ok {
		return ErrInvalidCurrency
	}
	if r.Kind != KindCredit && r.Kind != KindDebit {
		return ErrInvalidKind
	}
	return nil
}
