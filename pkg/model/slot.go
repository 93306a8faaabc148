package model

// TimeSlots is the fixed ordered catalog of bookable one-hour sessions.
// The labels are zero-padded, so their lexicographic order coincides with
// chronological order; slices of slots are sorted as plain strings.
var TimeSlots = []string{
	"08:00 - 09:00",
	"09:00 - 10:00",
	"10:00 - 11:00",
	"11:00 - 12:00",
	"12:00 - 13:00",
	"13:00 - 14:00",
	"14:00 - 15:00",
	"15:00 - 16:00",
	"16:00 - 17:00",
	"17:00 - 18:00",
	"18:00 - 19:00",
	"19:00 - 20:00",
	"20:00 - 21:00",
	"21:00 - 22:00",
}

var timeSlotSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(TimeSlots))
	for _, s := range TimeSlots {
		set[s] = struct{}{}
	}
	return set
}()

// IsValidSlot reports whether label is one of the catalog slots.
func IsValidSlot(label string) bool {
	_, ok := timeSlotSet[label]
	return ok
}
