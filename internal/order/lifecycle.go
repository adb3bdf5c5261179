package order

import (
	"context"
	"time"

	"sapaghor/internal/history"
	"sapaghor/internal/workflow"
)

// Store is the persistence boundary the lifecycle service drives.
//
// ApplyTransition must write the new status only if the order still holds
// expected (compare-and-swap) and must append the history row in the same
// durable unit: both or neither. A lost race is reported as ErrConflict,
// a missing order as ErrNotFound.
type Store interface {
	GetOrderStatus(ctx context.Context, orderID int64) (workflow.Status, error)
	ApplyTransition(ctx context.Context, orderID int64, next, expected workflow.Status, rec TransitionRecord) (*history.Entry, error)
	ListHistory(ctx context.Context, orderID int64) ([]history.Entry, error)
}

type TransitionRecord struct {
	Notes     *string
	ChangedBy *int64
	ChangedAt time.Time
}

// Lifecycle is the only component that moves an order through the workflow.
type Lifecycle struct {
	store Store
	now   func() time.Time
}

func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{store: store, now: time.Now}
}

// Transition validates and applies one status change, returning the appended
// history entry. The current status is re-read immediately before validation;
// together with the store's compare-and-swap this serializes writers per order.
func (l *Lifecycle) Transition(ctx context.Context, orderID int64, to workflow.Status, notes *string, changedBy *int64) (*history.Entry, error) {
	if _, err := workflow.ParseStatus(string(to)); err != nil {
		return nil, err
	}

	from, err := l.store.GetOrderStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !workflow.CanTransition(from, to) {
		return nil, &IllegalTransitionError{From: from, To: to}
	}

	return l.store.ApplyTransition(ctx, orderID, to, from, TransitionRecord{
		Notes:     notes,
		ChangedBy: changedBy,
		ChangedAt: l.now().UTC(),
	})
}

// History returns the order's status trail, oldest first.
func (l *Lifecycle) History(ctx context.Context, orderID int64) ([]history.Entry, error) {
	return l.store.ListHistory(ctx, orderID)
}

type Progress struct {
	Index       int  `json:"index"`
	Percent     int  `json:"percent"`
	IsCancelled bool `json:"is_cancelled"`
}

// Progress reports where the order sits on the stage track.
func (l *Lifecycle) Progress(ctx context.Context, orderID int64) (Progress, error) {
	status, err := l.store.GetOrderStatus(ctx, orderID)
	if err != nil {
		return Progress{}, err
	}
	c, err := workflow.Classify(status)
	if err != nil {
		return Progress{}, err
	}
	pct, err := workflow.ProgressPercent(status)
	if err != nil {
		return Progress{}, err
	}
	return Progress{Index: c.Index, Percent: pct, IsCancelled: c.IsCancelled}, nil
}
