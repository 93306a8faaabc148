package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"slotbook/internal/bookings/calendar"
	"slotbook/internal/bookings/capacity"
	"slotbook/internal/bookings/engine"
	"slotbook/internal/bookings/service"
	"slotbook/internal/bookings/store"
	"slotbook/internal/bookings/validator"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

func newTestRouter(t *testing.T, seed ...model.Booking) (*httprouter.Router, func()) {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   logger.LevelError,
		Format:  logger.FormatJSON,
		Output:  io.Discard,
		Service: "test",
	})

	st := store.NewMemoryStore()
	for _, b := range seed {
		st.Seed(b)
	}

	eng := engine.New(log)
	unsubscribe, err := eng.Run(context.Background(), st)
	if err != nil {
		t.Fatalf("engine.Run() error: %v", err)
	}

	alloc := capacity.NewAllocator(2)
	svc := service.NewBookingService(
		st,
		eng,
		alloc,
		calendar.NewAggregator(alloc),
		validator.NewBookingValidator(log),
		nil,
		log,
	)

	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	NewCalendarHandler(svc, log).RegisterRoutes(router)

	return router, unsubscribe
}

func TestCreateEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid booking",
			body:       `{"name":"Alice","date":"2026-03-02","slot":"08:00 - 09:00"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing fields",
			body:       `{"date":"2026-03-02"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown slot label",
			body:       `{"name":"Alice","date":"2026-03-02","slot":"23:00 - 24:00"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, cleanup := newTestRouter(t)
			defer cleanup()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCreateEndpoint_FullSlotConflict(t *testing.T) {
	router, cleanup := newTestRouter(t,
		model.Booking{ID: "a", Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00"},
		model.Booking{ID: "b", Name: "Bob", Date: "2026-03-02", Slot: "08:00 - 09:00"},
	)
	defer cleanup()

	body := `{"name":"Carol","date":"2026-03-02","slot":"08:00 - 09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}
}

func TestListEndpoint(t *testing.T) {
	router, cleanup := newTestRouter(t,
		model.Booking{ID: "a", Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00", CreatedAt: "2026-03-01T08:00:00Z"},
		model.Booking{ID: "b", Name: "Bob", Date: "2026-03-03", Slot: "09:00 - 10:00", CreatedAt: "2026-03-01T09:00:00Z"},
	)
	defer cleanup()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"all", "", http.StatusOK, 2},
		{"by date", "?date=2026-03-02", http.StatusOK, 1},
		{"by name substring", "?name=bo", http.StatusOK, 1},
		{"bad date", "?date=03-02-2026", http.StatusBadRequest, 0},
		{"bad slot", "?slot=midnight", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data []model.Booking `json:"data"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(resp.Data) != tt.wantCount {
				t.Errorf("got %d bookings, want %d", len(resp.Data), tt.wantCount)
			}
		})
	}
}

func TestUpdateEndpoint(t *testing.T) {
	router, cleanup := newTestRouter(t,
		model.Booking{ID: "a", Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00"},
	)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/a", strings.NewReader(`{"slot":"09:00 - 10:00"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204; body: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/missing", strings.NewReader(`{"slot":"09:00 - 10:00"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteEndpoint(t *testing.T) {
	router, cleanup := newTestRouter(t,
		model.Booking{ID: "a", Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00"},
	)
	defer cleanup()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/a", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestSlotStatusEndpoint(t *testing.T) {
	router, cleanup := newTestRouter(t,
		model.Booking{ID: "a", Name: "Alice", Date: "2026-03-02", Slot: "08:00 - 09:00"},
	)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/slot-status?date=2026-03-02&slot=08%3A00+-+09%3A00", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data service.SlotStatus `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Count != 1 || !resp.Data.Admissible {
		t.Errorf("slot status = %+v, want count 1 admissible", resp.Data)
	}
}

func TestCalendarEndpoints(t *testing.T) {
	router, cleanup := newTestRouter(t,
		model.Booking{ID: "a", Name: "Alice", Date: "2024-06-03", Slot: "08:00 - 09:00"},
	)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/month?ref=2024-06-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("month status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var monthResp struct {
		Data calendar.MonthView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&monthResp); err != nil {
		t.Fatalf("decoding month response: %v", err)
	}
	// June 2024 starts on a Saturday: 5 pads plus 30 days.
	if len(monthResp.Data.Cells) != 35 {
		t.Errorf("month cells = %d, want 35", len(monthResp.Data.Cells))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/calendar/week?ref=2024-06-05", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("week status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var weekResp struct {
		Data calendar.WeekView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&weekResp); err != nil {
		t.Fatalf("decoding week response: %v", err)
	}
	if weekResp.Data.Start != "2024-06-03" {
		t.Errorf("week start = %s, want 2024-06-03", weekResp.Data.Start)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/calendar/month?ref=June", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad ref status = %d, want 400", rec.Code)
	}
}
