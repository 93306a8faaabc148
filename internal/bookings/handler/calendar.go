package handler

import (
	"fmt"
	"net/http"
	"time"

	"slotbook/internal/bookings/service"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type CalendarHandler struct {
	service *service.BookingService
	log     *logger.Logger
}

func NewCalendarHandler(service *service.BookingService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

// parseRef reads the optional ref query parameter, defaulting to today.
// Any date within the target month or week selects that view.
func (h *CalendarHandler) parseRef(r *http.Request) (time.Time, error) {
	refStr := r.URL.Query().Get("ref")
	if refStr == "" {
		return time.Now().UTC(), nil
	}

	ref, err := time.Parse(dateLayout, refStr)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid ref parameter: %s", refStr))
	}
	return ref, nil
}

func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ref, err := h.parseRef(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Month", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, h.service.Month(ref)); err != nil {
		h.log.Error("failed to write success response", "handler", "Month", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ref, err := h.parseRef(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Week", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, h.service.Week(ref)); err != nil {
		h.log.Error("failed to write success response", "handler", "Week", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar/month", h.Month)
	router.GET("/api/v1/calendar/week", h.Week)
}
