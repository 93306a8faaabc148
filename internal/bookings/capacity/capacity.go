// Package capacity decides whether a (date, slot) pair can admit one more
// booking. Everything here is a pure function of a snapshot: no side
// effects, no remote checks. Two writers validating against pre-race
// snapshots can both be admitted and transiently exceed capacity; that is
// an accepted outcome corrected by staff review, not a detected failure.
package capacity

import "slotbook/pkg/model"

type Occupancy string

const (
	Free    Occupancy = "free"
	Partial Occupancy = "partial"
	Full    Occupancy = "full"
)

// Allocator carries the per-slot occupant cap.
type Allocator struct {
	capacity int
}

func NewAllocator(capacity int) *Allocator {
	return &Allocator{capacity: capacity}
}

func (a *Allocator) Capacity() int {
	return a.capacity
}

// CountInSlot counts bookings in snapshot matching (date, slot), skipping
// the booking with id excludeID. Pass an empty excludeID for creates; pass
// the edited booking's id so an edit never counts against itself.
func (a *Allocator) CountInSlot(snapshot []model.Booking, date, slot, excludeID string) int {
	count := 0
	for _, b := range snapshot {
		if b.Date == date && b.Slot == slot && (excludeID == "" || b.ID != excludeID) {
			count++
		}
	}
	return count
}

// IsAdmissible reports whether one more booking fits in (date, slot).
func (a *Allocator) IsAdmissible(snapshot []model.Booking, date, slot, excludeID string) bool {
	return a.CountInSlot(snapshot, date, slot, excludeID) < a.capacity
}

// UsersInSlot returns every occupant of (date, slot) in snapshot order.
func (a *Allocator) UsersInSlot(snapshot []model.Booking, date, slot string) []model.Booking {
	var occupants []model.Booking
	for _, b := range snapshot {
		if b.Date == date && b.Slot == slot {
			occupants = append(occupants, b)
		}
	}
	return occupants
}

// OccupancyState maps an occupant count to its display state.
func (a *Allocator) OccupancyState(count int) Occupancy {
	switch {
	case count <= 0:
		return Free
	case count < a.capacity:
		return Partial
	default:
		return Full
	}
}
