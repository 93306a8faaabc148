package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/pkg/model"
)

// MemoryStore is an in-memory Store with the same full-set echo semantics
// as the Mongo implementation: every successful write notifies every
// subscriber, including the writer's own subscription. It backs tests and
// local development without a database.
type MemoryStore struct {
	mu          sync.Mutex
	bookings    map[string]model.Booking
	subscribers map[int]ChangeHandler
	nextSub     int

	// Now is swappable so tests can pin timestamps.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:    make(map[string]model.Booking),
		subscribers: make(map[int]ChangeHandler),
		Now:         time.Now,
	}
}

func (s *MemoryStore) timestamp() string {
	return s.Now().UTC().Format(time.RFC3339)
}

func (s *MemoryStore) Create(_ context.Context, draft *model.BookingDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking := model.Booking{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		Team:      draft.Team,
		Date:      draft.Date,
		Slot:      draft.Slot,
		CreatedAt: s.timestamp(),
	}
	s.bookings[booking.ID] = booking

	s.broadcastLocked()
	return booking.ID, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch *model.BookingPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}

	updated := patch.Merged(existing)
	updated.UpdatedAt = s.timestamp()
	s.bookings[id] = updated

	s.broadcastLocked()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(s.bookings, id)

	s.broadcastLocked()
	return nil
}

func (s *MemoryStore) Subscribe(_ context.Context, onChange ChangeHandler, _ ErrorHandler) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = onChange
	initial := s.snapshotLocked()
	s.mu.Unlock()

	onChange(initial)

	unsubscribe := func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
	return unsubscribe, nil
}

// Seed inserts a booking verbatim without notifying subscribers.
func (s *MemoryStore) Seed(b model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.bookings[b.ID] = b
}

func (s *MemoryStore) snapshotLocked() []model.Booking {
	set := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		set = append(set, b)
	}
	return set
}

func (s *MemoryStore) broadcastLocked() {
	for _, onChange := range s.subscribers {
		onChange(s.snapshotLocked())
	}
}
