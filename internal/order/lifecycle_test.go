package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sapaghor/internal/history"
	"sapaghor/internal/workflow"
)

// fakeStore backs lifecycle tests with the same compare-and-swap contract the
// Postgres repository provides.
type fakeStore struct {
	mu      sync.Mutex
	status  map[int64]workflow.Status
	entries map[int64][]history.Entry
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		status:  map[int64]workflow.Status{},
		entries: map[int64][]history.Entry{},
	}
}

func (f *fakeStore) addOrder(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[id] = workflow.StatusOrder
}

func (f *fakeStore) GetOrderStatus(_ context.Context, orderID int64) (workflow.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.status[orderID]
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) ApplyTransition(_ context.Context, orderID int64, next, expected workflow.Status, rec TransitionRecord) (*history.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.status[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	if current != expected {
		return nil, ErrConflict
	}
	f.status[orderID] = next
	f.nextID++
	e := history.Entry{
		ID:        f.nextID,
		OrderID:   orderID,
		Status:    next,
		Notes:     rec.Notes,
		ChangedBy: rec.ChangedBy,
		ChangedAt: rec.ChangedAt,
	}
	f.entries[orderID] = append(f.entries[orderID], e)
	return &e, nil
}

func (f *fakeStore) ListHistory(_ context.Context, orderID int64) ([]history.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]history.Entry(nil), f.entries[orderID]...), nil
}

func TestTransition_RoundTrip(t *testing.T) {
	store := newFakeStore()
	store.addOrder(1)
	lc := NewLifecycle(store)

	before := time.Now().UTC()
	entry, err := lc.Transition(context.Background(), 1, workflow.StatusDesignSent, nil, nil)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if entry.Status != workflow.StatusDesignSent {
		t.Fatalf("entry status = %s", entry.Status)
	}
	if entry.ChangedAt.Before(before) {
		t.Fatalf("changed_at %v precedes the call", entry.ChangedAt)
	}

	got, err := store.GetOrderStatus(context.Background(), 1)
	if err != nil || got != workflow.StatusDesignSent {
		t.Fatalf("status after transition = %s (%v)", got, err)
	}
	hist, err := lc.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 || hist[0].Status != workflow.StatusDesignSent {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestTransition_RejectsStageSkip(t *testing.T) {
	store := newFakeStore()
	store.addOrder(1)
	lc := NewLifecycle(store)

	if _, err := lc.Transition(context.Background(), 1, workflow.StatusDesignSent, nil, nil); err != nil {
		t.Fatalf("design_sent: %v", err)
	}

	// proof_given and proof_complete skipped
	_, err := lc.Transition(context.Background(), 1, workflow.StatusPlateSetting, nil, nil)
	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}
	if illegal.From != workflow.StatusDesignSent || illegal.To != workflow.StatusPlateSetting {
		t.Fatalf("error does not name both sides: %+v", illegal)
	}
	if got, _ := store.GetOrderStatus(context.Background(), 1); got != workflow.StatusDesignSent {
		t.Fatalf("rejected transition mutated status to %s", got)
	}
}

func TestTransition_DeliveredIsTerminal(t *testing.T) {
	store := newFakeStore()
	store.addOrder(1)
	store.status[1] = workflow.StatusOrderReady
	lc := NewLifecycle(store)

	if _, err := lc.Transition(context.Background(), 1, workflow.StatusDelivered, nil, nil); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	_, err := lc.Transition(context.Background(), 1, workflow.StatusCancelled, nil, nil)
	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError after delivery, got %v", err)
	}
}

func TestTransition_UnknownTargetRejected(t *testing.T) {
	store := newFakeStore()
	store.addOrder(1)
	lc := NewLifecycle(store)

	if _, err := lc.Transition(context.Background(), 1, "order_placed", nil, nil); err == nil {
		t.Fatalf("expected error for retired status code")
	}
	if len(store.entries[1]) != 0 {
		t.Fatalf("rejected transition appended history")
	}
}

func TestTransition_OrderNotFound(t *testing.T) {
	lc := NewLifecycle(newFakeStore())
	if _, err := lc.Transition(context.Background(), 99, workflow.StatusDesignSent, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransition_ConcurrentWritersOneWins(t *testing.T) {
	store := newFakeStore()
	store.addOrder(1)
	lc := NewLifecycle(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = lc.Transition(context.Background(), 1, workflow.StatusDesignSent, nil, nil)
		}(i)
	}
	wg.Wait()

	// Both goroutines target design_sent. The loser either conflicts (both read
	// "order" before the first write landed) or succeeds as an idempotent
	// self-transition (it re-read after the first write).
	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("unexpected failure mode: %v", err)
		}
	}
	if okCount == 0 {
		t.Fatalf("no writer succeeded")
	}
	if got, _ := store.GetOrderStatus(context.Background(), 1); got != workflow.StatusDesignSent {
		t.Fatalf("final status = %s", got)
	}
	if len(store.entries[1]) != okCount {
		t.Fatalf("history rows (%d) do not match accepted writes (%d)", len(store.entries[1]), okCount)
	}
}

func TestTransition_StaleExpectedStatusConflicts(t *testing.T) {
	store := newFakeStore()
	store.addOrder(1)
	lc := NewLifecycle(store)

	// Another writer lands between our read and our write.
	if _, err := store.ApplyTransition(context.Background(), 1, workflow.StatusDesignSent, workflow.StatusOrder, TransitionRecord{ChangedAt: time.Now()}); err != nil {
		t.Fatalf("setup transition: %v", err)
	}
	if _, err := store.ApplyTransition(context.Background(), 1, workflow.StatusProofGiven, workflow.StatusOrder, TransitionRecord{ChangedAt: time.Now()}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for stale expected status, got %v", err)
	}

	// The lifecycle re-reads before validating, so a fresh call still works.
	if _, err := lc.Transition(context.Background(), 1, workflow.StatusProofGiven, nil, nil); err != nil {
		t.Fatalf("fresh transition: %v", err)
	}
}
