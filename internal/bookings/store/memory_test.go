package store

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/pkg/model"
)

func TestMemoryStore_CreateEchoesFullSet(t *testing.T) {
	st := NewMemoryStore()
	st.Now = func() time.Time {
		return time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	}

	var deliveries [][]model.Booking
	unsubscribe, err := st.Subscribe(context.Background(), func(set []model.Booking) {
		deliveries = append(deliveries, set)
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	defer unsubscribe()

	if len(deliveries) != 1 || len(deliveries[0]) != 0 {
		t.Fatalf("expected an immediate empty initial set, got %v", deliveries)
	}

	id, err := st.Create(context.Background(), &model.BookingDraft{
		Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}

	if len(deliveries) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(deliveries))
	}
	echoed := deliveries[1]
	if len(echoed) != 1 || echoed[0].ID != id {
		t.Fatalf("echo does not contain the created booking: %+v", echoed)
	}
	if echoed[0].CreatedAt != "2026-03-02T08:00:00Z" {
		t.Errorf("CreatedAt = %s, want store-stamped 2026-03-02T08:00:00Z", echoed[0].CreatedAt)
	}
}

func TestMemoryStore_UpdateMergesPatch(t *testing.T) {
	st := NewMemoryStore()
	st.Seed(model.Booking{
		ID: "x", Name: "Alice", Team: "Blue", Date: "2026-03-02", Slot: "08:00 - 09:00",
	})

	newSlot := "09:00 - 10:00"
	err := st.Update(context.Background(), "x", &model.BookingPatch{Slot: &newSlot})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	var current []model.Booking
	unsubscribe, err := st.Subscribe(context.Background(), func(set []model.Booking) {
		current = set
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	defer unsubscribe()

	if len(current) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(current))
	}
	got := current[0]
	if got.Slot != newSlot {
		t.Errorf("Slot = %s, want %s", got.Slot, newSlot)
	}
	if got.Name != "Alice" || got.Team != "Blue" || got.Date != "2026-03-02" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt == "" {
		t.Error("UpdatedAt not stamped")
	}
}

func TestMemoryStore_UnknownIDs(t *testing.T) {
	st := NewMemoryStore()

	name := "Bob"
	if err := st.Update(context.Background(), "missing", &model.BookingPatch{Name: &name}); !errors.Is(err, bookingserrors.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if err := st.Delete(context.Background(), "missing"); !errors.Is(err, bookingserrors.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_UnsubscribeStopsDelivery(t *testing.T) {
	st := NewMemoryStore()

	calls := 0
	unsubscribe, err := st.Subscribe(context.Background(), func([]model.Booking) {
		calls++
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	unsubscribe()

	if _, err := st.Create(context.Background(), &model.BookingDraft{
		Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00",
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if calls != 1 {
		t.Errorf("handler called %d times, want only the initial delivery", calls)
	}
}

func TestMemoryStore_MultipleSubscribersSeeEveryWrite(t *testing.T) {
	st := NewMemoryStore()

	var a, b int
	ua, _ := st.Subscribe(context.Background(), func([]model.Booking) { a++ }, nil)
	defer ua()
	ub, _ := st.Subscribe(context.Background(), func([]model.Booking) { b++ }, nil)
	defer ub()

	if _, err := st.Create(context.Background(), &model.BookingDraft{
		Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00",
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Initial delivery plus one echo each.
	if a != 2 || b != 2 {
		t.Errorf("deliveries = (%d, %d), want (2, 2)", a, b)
	}
}
