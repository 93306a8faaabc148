// Package store abstracts the remote persistent collection of bookings.
//
// The contract is deliberately coarse: every change notification carries the
// full current set of bookings, never a diff, and includes the echo of the
// local caller's own writes. The snapshot held by the reconciliation engine
// changes only through that echo; writes themselves never mutate local state.
package store

import (
	"context"

	"slotbook/pkg/model"
)

// ChangeHandler receives the complete current booking set. The slice is
// owned by the receiver; implementations must not reuse it.
type ChangeHandler func(bookings []model.Booking)

// ErrorHandler receives subscription failures. Implementations keep
// delivering after transient failures and stop after permanent ones.
type ErrorHandler func(err error)

// Unsubscribe cancels a change subscription. No notification is delivered
// after it returns.
type Unsubscribe func()

type Store interface {
	// Create persists a record-without-id and returns the assigned id.
	// The store stamps CreatedAt.
	Create(ctx context.Context, draft *model.BookingDraft) (string, error)

	// Update applies a partial record to an existing booking and stamps
	// UpdatedAt. Returns bookingserrors.ErrNotFound when id is unknown.
	Update(ctx context.Context, id string, patch *model.BookingPatch) error

	// Delete removes a booking permanently.
	Delete(ctx context.Context, id string) error

	// Subscribe delivers the current full set immediately, then again after
	// every change anywhere in the collection, until unsubscribed or ctx is
	// done. No ordering is guaranteed between a local write's echo and
	// concurrent remote writes.
	Subscribe(ctx context.Context, onChange ChangeHandler, onError ErrorHandler) (Unsubscribe, error)
}
