package engine

import (
	"sort"

	"slotbook/pkg/model"
)

// SortForDisplay orders bookings newest submission first. Records carrying
// a createdAt timestamp sort before records without one; when neither side
// has it, the fallback is date descending then slot ascending. Display
// policy only, never used for capacity decisions.
func SortForDisplay(bookings []model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return lessForDisplay(bookings[i], bookings[j])
	})
}

func lessForDisplay(a, b model.Booking) bool {
	switch {
	case a.CreatedAt != "" && b.CreatedAt != "":
		return a.CreatedAt > b.CreatedAt
	case a.CreatedAt != "":
		return true
	case b.CreatedAt != "":
		return false
	}

	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.Slot < b.Slot
}
