package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"slotbook/internal/bookings/calendar"
	"slotbook/internal/bookings/capacity"
	"slotbook/internal/bookings/engine"
	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/internal/bookings/store"
	"slotbook/internal/bookings/validator"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/kafka"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
)

// Publisher emits booking change events to interested downstream
// consumers. Events are advisory; the reconciliation engine never
// consumes them.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// ListFilter narrows the admin listing. Zero values mean "no filter".
// Name matches as a case-insensitive substring; Date and Slot match
// exactly.
type ListFilter struct {
	Date string
	Slot string
	Name string
}

// SlotStatus reports the live occupancy of one (date, slot) pair.
type SlotStatus struct {
	Date       string             `json:"date"`
	Slot       string             `json:"slot"`
	Count      int                `json:"count"`
	Capacity   int                `json:"capacity"`
	Admissible bool               `json:"admissible"`
	Occupancy  capacity.Occupancy `json:"occupancy"`
	Occupants  []model.Booking    `json:"occupants"`
}

type BookingService struct {
	store      store.Store
	engine     *engine.Engine
	allocator  *capacity.Allocator
	aggregator *calendar.Aggregator
	validator  *validator.BookingValidator
	publisher  Publisher
	log        *logger.Logger
}

// NewBookingService wires the booking operations. publisher may be nil
// when event publishing is disabled.
func NewBookingService(
	st store.Store,
	eng *engine.Engine,
	alloc *capacity.Allocator,
	agg *calendar.Aggregator,
	val *validator.BookingValidator,
	publisher Publisher,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		store:      st,
		engine:     eng,
		allocator:  alloc,
		aggregator: agg,
		validator:  val,
		publisher:  publisher,
		log:        log,
	}
}

// Create admits a new booking: sanitize, validate, check capacity
// against the current snapshot, then persist. The local snapshot is
// never mutated here; it updates only when the store echoes the write.
func (s *BookingService) Create(ctx context.Context, draft *model.BookingDraft) (string, error) {
	clean := s.sanitizeDraft(draft)

	candidate := model.Booking{
		Name: clean.Name,
		Team: clean.Team,
		Date: clean.Date,
		Slot: clean.Slot,
	}
	if err := s.validate(&candidate); err != nil {
		return "", err
	}

	if err := s.checkCapacity(clean.Date, clean.Slot, ""); err != nil {
		return "", err
	}

	id, err := s.store.Create(ctx, &clean)
	if err != nil {
		return "", s.mapStoreError("create booking", err)
	}

	s.log.Info("Booking created", "id", id, "date", clean.Date, "slot", clean.Slot)
	s.publishEvent(ctx, "booking.created", id, &clean)

	return id, nil
}

// Update applies a partial edit. Capacity is re-checked against the
// target (date, slot) with the booking's own occupancy excluded, so
// moving within a slot the booking already occupies stays admissible.
func (s *BookingService) Update(ctx context.Context, id string, patch *model.BookingPatch) error {
	if id == "" {
		return apperrors.InvalidInput("booking id is required")
	}

	current, ok := s.findByID(id)
	if !ok {
		return apperrors.NotFoundWithID("booking", id)
	}

	s.sanitizePatch(patch)
	merged := patch.Merged(current)

	if err := s.validate(&merged); err != nil {
		return err
	}

	if err := s.checkCapacity(merged.Date, merged.Slot, id); err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, patch); err != nil {
		return s.mapStoreError("update booking", err)
	}

	s.log.Info("Booking updated", "id", id, "date", merged.Date, "slot", merged.Slot)
	s.publishEvent(ctx, "booking.updated", id, &model.BookingDraft{
		Name: merged.Name,
		Team: merged.Team,
		Date: merged.Date,
		Slot: merged.Slot,
	})

	return nil
}

// Delete removes a booking permanently. Deleting is always admissible;
// it only ever frees capacity.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("booking id is required")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapStoreError("delete booking", err)
	}

	s.log.Info("Booking deleted", "id", id)
	s.publishEvent(ctx, "booking.deleted", id, nil)

	return nil
}

// List returns the current snapshot filtered and in display order:
// newest submissions first, records without a submission time last.
func (s *BookingService) List(filter ListFilter) []model.Booking {
	snapshot := s.engine.Snapshot()

	nameNeedle := strings.ToLower(strings.TrimSpace(filter.Name))

	filtered := make([]model.Booking, 0, len(snapshot))
	for _, b := range snapshot {
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if filter.Slot != "" && b.Slot != filter.Slot {
			continue
		}
		if nameNeedle != "" && !strings.Contains(strings.ToLower(b.Name), nameNeedle) {
			continue
		}
		filtered = append(filtered, b)
	}

	engine.SortForDisplay(filtered)
	return filtered
}

// SlotStatus reports live occupancy for one (date, slot) pair.
// excludeID, when set, discounts that booking's own occupancy, which is
// how an edit form asks "could I move here".
func (s *BookingService) SlotStatus(date, slot, excludeID string) (SlotStatus, error) {
	date = strings.TrimSpace(date)
	slot = strings.TrimSpace(slot)

	if date == "" {
		return SlotStatus{}, apperrors.InvalidInput("date is required")
	}
	if !model.IsValidSlot(slot) {
		return SlotStatus{}, apperrors.InvalidInput(fmt.Sprintf("unknown time slot %q", slot))
	}

	snapshot := s.engine.Snapshot()
	count := s.allocator.CountInSlot(snapshot, date, slot, excludeID)

	return SlotStatus{
		Date:       date,
		Slot:       slot,
		Count:      count,
		Capacity:   s.allocator.Capacity(),
		Admissible: count < s.allocator.Capacity(),
		Occupancy:  s.allocator.OccupancyState(count),
		Occupants:  s.allocator.UsersInSlot(snapshot, date, slot),
	}, nil
}

// Month projects the current snapshot onto a Monday-first month grid.
func (s *BookingService) Month(ref time.Time) calendar.MonthView {
	return s.aggregator.Month(s.engine.Snapshot(), ref)
}

// Week projects the current snapshot onto the Monday-started week
// containing ref.
func (s *BookingService) Week(ref time.Time) calendar.WeekView {
	return s.aggregator.Week(s.engine.Snapshot(), ref)
}

func (s *BookingService) findByID(id string) (model.Booking, bool) {
	for _, b := range s.engine.Snapshot() {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

func (s *BookingService) sanitizeDraft(draft *model.BookingDraft) model.BookingDraft {
	return model.BookingDraft{
		Name: sanitizer.DisplayString(draft.Name),
		Team: sanitizer.DisplayString(draft.Team),
		Date: strings.TrimSpace(draft.Date),
		Slot: strings.TrimSpace(draft.Slot),
	}
}

func (s *BookingService) sanitizePatch(patch *model.BookingPatch) {
	if patch.Name != nil {
		clean := sanitizer.DisplayString(*patch.Name)
		patch.Name = &clean
	}
	if patch.Team != nil {
		clean := sanitizer.DisplayString(*patch.Team)
		patch.Team = &clean
	}
	if patch.Date != nil {
		clean := strings.TrimSpace(*patch.Date)
		patch.Date = &clean
	}
	if patch.Slot != nil {
		clean := strings.TrimSpace(*patch.Slot)
		patch.Slot = &clean
	}
}

// validate maps field failures to a single 422 whose message names every
// problem field at once, so the caller fixes the whole form in one pass.
func (s *BookingService) validate(booking *model.Booking) error {
	err := s.validator.Validate(booking)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		message := "booking is invalid"
		if missing := validationErrs.MissingFields(); len(missing) > 0 {
			message = fmt.Sprintf("please fill in the required fields: %s", strings.Join(missing, ", "))
		}
		return apperrors.Validation(message, validationErrs.Details())
	}

	return apperrors.Internal("booking validation failed", err)
}

func (s *BookingService) checkCapacity(date, slot, excludeID string) error {
	snapshot := s.engine.Snapshot()
	if s.allocator.IsAdmissible(snapshot, date, slot, excludeID) {
		return nil
	}

	count := s.allocator.CountInSlot(snapshot, date, slot, excludeID)
	s.log.Warn("Slot at capacity", "date", date, "slot", slot, "count", count)

	return apperrors.Conflict(
		fmt.Sprintf("slot %q on %s is fully booked (%d/%d)", slot, date, count, s.allocator.Capacity()),
	).WithDetails(map[string]any{
		"date":     date,
		"slot":     slot,
		"count":    count,
		"capacity": s.allocator.Capacity(),
	})
}

func (s *BookingService) mapStoreError(op string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFound("booking")
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking id")
	case store.IsTransient(err):
		s.log.Warn("Transient store failure", "op", op, "error", err)
		return apperrors.Unavailable("booking store")
	default:
		return apperrors.Internal(op+" failed", err)
	}
}

type bookingEvent struct {
	Type      string              `json:"type"`
	BookingID string              `json:"bookingId"`
	Booking   *model.BookingDraft `json:"booking,omitempty"`
	At        string              `json:"at"`
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, id string, draft *model.BookingDraft) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(bookingEvent{
		Type:      eventType,
		BookingID: id,
		Booking:   draft,
		At:        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.log.Error("Failed to encode booking event", "type", eventType, "error", err)
		return
	}

	// Publishing is best effort; a broker outage never fails the booking.
	if err := s.publisher.Publish(ctx, kafka.Message{Key: id, Value: payload}); err != nil {
		s.log.Error("Failed to publish booking event", "type", eventType, "id", id, "error", err)
	}
}
