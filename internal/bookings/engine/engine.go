// Package engine maintains the in-memory authoritative snapshot of all
// bookings, reconciled from the store's change notifications.
package engine

import (
	"context"
	"sync"

	"slotbook/internal/bookings/store"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

// Engine exclusively owns the snapshot. ApplySnapshot is the single write
// path: a full consistent swap, never a partial update, so any consumer
// taking a point-in-time reference sees either the old set or the new set.
type Engine struct {
	mu       sync.RWMutex
	snapshot []model.Booking

	log *logger.Logger
}

func New(log *logger.Logger) *Engine {
	return &Engine{
		log: log.Component("engine"),
	}
}

// ApplySnapshot atomically replaces the snapshot with newSet.
func (e *Engine) ApplySnapshot(newSet []model.Booking) {
	replacement := make([]model.Booking, len(newSet))
	copy(replacement, newSet)

	e.mu.Lock()
	e.snapshot = replacement
	e.mu.Unlock()

	e.log.Debug("Snapshot replaced", "bookings", len(replacement))
}

// Snapshot returns a point-in-time copy. Callers must not retain it across
// suspension points; the next notification may replace the set wholesale.
func (e *Engine) Snapshot() []model.Booking {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.Booking, len(e.snapshot))
	copy(out, e.snapshot)
	return out
}

// Run subscribes the engine to the store's change feed. A subscription
// error never clears the snapshot: a stale-but-nonempty view is safer than
// falsely showing every slot free.
func (e *Engine) Run(ctx context.Context, st store.Store) (store.Unsubscribe, error) {
	onChange := func(set []model.Booking) {
		e.ApplySnapshot(set)
	}
	onError := func(err error) {
		e.log.Error("Change subscription error; keeping last-known snapshot",
			"error", err,
			"kind", store.Classify(err).String(),
		)
	}

	unsubscribe, err := st.Subscribe(ctx, onChange, onError)
	if err != nil {
		return nil, err
	}

	e.log.Info("Reconciliation engine subscribed to booking changes")
	return unsubscribe, nil
}
