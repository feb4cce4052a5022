package repositories

import "errors"

// ErrTransactionNotFound is returned when a status update targets an unknown transaction id.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrAlreadyFinalized is returned when a status update targets a row that has
// already left the pending state. Callers replaying a finished job treat this
// as a benign no-op.
var ErrAlreadyFinalized = errors.New("transaction already finalized")

// ErrInconsistentState is returned when an insert loses the uniqueness race but
// the winning row cannot be read back. This should never happen and indicates a
// bug or data loss; callers should alert on it.
var ErrInconsistentState = errors.New("transaction row vanished after unique violation")
