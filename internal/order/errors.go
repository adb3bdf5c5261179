package order

import (
	"errors"
	"fmt"

	"sapaghor/internal/workflow"
)

var (
	// ErrNotFound means the order does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrConflict means another transition won the race; the caller should
	// re-read the current status and re-decide.
	ErrConflict = errors.New("order status changed concurrently")
)

// IllegalTransitionError is a business-rule rejection, reported before any
// mutation and never retried.
type IllegalTransitionError struct {
	From workflow.Status
	To   workflow.Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// StorageError wraps transient infrastructure faults. The transition write is
// idempotent for an unchanged (from, to) pair, so callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
