package models

import "time"

// Listing pagination bounds
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// TransactionFilter narrows the transaction listing. Zero values mean "no filter".
type TransactionFilter struct {
	Status string     // pending, completed or failed
	Kind   string     // credit or debit
	From   *time.Time // created_at lower bound, inclusive
	To     *time.Time // created_at upper bound, inclusive
	Page   int        // 1-based
	Limit  int        // 1..100
}

// Normalize clamps pagination to valid bounds.
func (f *TransactionFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

// Offset returns the row offset for the current page.
func (f TransactionFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
