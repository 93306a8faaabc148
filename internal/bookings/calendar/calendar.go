// Package calendar projects the booking snapshot into month and week
// views. Both projections are total, side-effect-free functions of
// (snapshot, reference date): re-running them against the same inputs
// yields the same structure. Navigation state lives with the caller.
package calendar

import (
	"sort"
	"time"

	"slotbook/internal/bookings/capacity"
	"slotbook/pkg/model"
)

const dateLayout = "2006-01-02"

// SlotGroup holds one slot's occupants within a day cell. Occupants of a
// slot are never split across groups.
type SlotGroup struct {
	Slot      string             `json:"slot"`
	Bookings  []model.Booking    `json:"bookings"`
	Count     int                `json:"count"`
	Occupancy capacity.Occupancy `json:"occupancy"`
}

// DayCell is one day of a projection. Leading month-view padding cells
// have Empty set and carry no date or bookings.
type DayCell struct {
	Empty    bool        `json:"empty,omitempty"`
	Day      int         `json:"day,omitempty"`
	Date     string      `json:"date,omitempty"`
	DayName  string      `json:"dayName,omitempty"`
	Today    bool        `json:"today,omitempty"`
	Bookings int         `json:"bookings"`
	Slots    []SlotGroup `json:"slots,omitempty"`
}

type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []DayCell  `json:"cells"`
}

type WeekView struct {
	Start string    `json:"start"`
	Days  []DayCell `json:"days"`
}

type Aggregator struct {
	alloc *capacity.Allocator
	now   func() time.Time
}

func NewAggregator(alloc *capacity.Allocator) *Aggregator {
	return &Aggregator{
		alloc: alloc,
		now:   time.Now,
	}
}

// WithClock pins the aggregator's notion of "today".
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

func (a *Aggregator) today() string {
	return a.now().Format(dateLayout)
}

// Month produces one cell per calendar day of the month containing ref,
// left-padded so day 1 falls under its weekday column with the week
// starting Monday (Sunday remaps to the last column).
func (a *Aggregator) Month(snapshot []model.Booking, ref time.Time) MonthView {
	year, month, _ := ref.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	numDays := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	offset := mondayIndex(first.Weekday())

	today := a.today()
	cells := make([]DayCell, 0, offset+numDays)
	for i := 0; i < offset; i++ {
		cells = append(cells, DayCell{Empty: true})
	}
	for day := 1; day <= numDays; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		cells = append(cells, a.dayCell(snapshot, date, day, "", today))
	}

	return MonthView{
		Year:  year,
		Month: month,
		Cells: cells,
	}
}

// Week emits exactly 7 cells Monday through Sunday for the ISO week
// containing ref. A Sunday reference starts 6 days earlier.
func (a *Aggregator) Week(snapshot []model.Booking, ref time.Time) WeekView {
	start := ref.AddDate(0, 0, -mondayIndex(ref.Weekday()))

	today := a.today()
	days := make([]DayCell, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		cell := a.dayCell(snapshot, d.Format(dateLayout), d.Day(), d.Format("Mon"), today)
		days = append(days, cell)
	}

	return WeekView{
		Start: start.Format(dateLayout),
		Days:  days,
	}
}

func (a *Aggregator) dayCell(snapshot []model.Booking, date string, day int, dayName, today string) DayCell {
	var dayBookings []model.Booking
	for _, b := range snapshot {
		if b.Date == date {
			dayBookings = append(dayBookings, b)
		}
	}

	return DayCell{
		Day:      day,
		Date:     date,
		DayName:  dayName,
		Today:    date == today,
		Bookings: len(dayBookings),
		Slots:    a.groupBySlot(dayBookings),
	}
}

// groupBySlot buckets a day's bookings by slot label, groups sorted
// lexicographically. The fixed-width labels make that order chronological.
func (a *Aggregator) groupBySlot(bookings []model.Booking) []SlotGroup {
	if len(bookings) == 0 {
		return nil
	}

	bySlot := make(map[string][]model.Booking)
	for _, b := range bookings {
		bySlot[b.Slot] = append(bySlot[b.Slot], b)
	}

	labels := make([]string, 0, len(bySlot))
	for slot := range bySlot {
		labels = append(labels, slot)
	}
	sort.Strings(labels)

	groups := make([]SlotGroup, 0, len(labels))
	for _, slot := range labels {
		occupants := bySlot[slot]
		groups = append(groups, SlotGroup{
			Slot:      slot,
			Bookings:  occupants,
			Count:     len(occupants),
			Occupancy: a.alloc.OccupancyState(len(occupants)),
		})
	}
	return groups
}

// mondayIndex remaps Go's Sunday-first weekday so Monday is column 0 and
// Sunday is column 6.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
