package model

// Booking is one person reserving one time slot on one date.
// Date is a zero-padded YYYY-MM-DD string, so lexicographic comparison is
// chronological. Slot is one of the fixed catalog labels, compared by exact
// string identity. CreatedAt and UpdatedAt are ISO-8601 UTC strings used for
// display ordering only, never for capacity decisions.
type Booking struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string `json:"name" bson:"name" validate:"required,max=100"`
	Team      string `json:"team,omitempty" bson:"team,omitempty" validate:"omitempty,max=100"`
	Date      string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Slot      string `json:"slot" bson:"slot" validate:"required,timeslot"`
	CreatedAt string `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// BookingDraft is the record-without-id the store accepts at creation,
// and also the shape of the persisted form draft.
type BookingDraft struct {
	Name string `json:"name" bson:"name"`
	Team string `json:"team,omitempty" bson:"team,omitempty"`
	Date string `json:"date" bson:"date"`
	Slot string `json:"slot" bson:"slot"`
}

// BookingPatch carries a partial update. Nil fields are left untouched, so
// an explicitly empty team can be distinguished from an absent one.
type BookingPatch struct {
	Name *string `json:"name,omitempty"`
	Team *string `json:"team,omitempty"`
	Date *string `json:"date,omitempty"`
	Slot *string `json:"slot,omitempty"`
}

// Merged returns a copy of b with the patch applied.
func (p *BookingPatch) Merged(b Booking) Booking {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Team != nil {
		b.Team = *p.Team
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Slot != nil {
		b.Slot = *p.Slot
	}
	return b
}
