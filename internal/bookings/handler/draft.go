package handler

import (
	"encoding/json"
	"net/http"

	"slotbook/internal/bookings/draft"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DraftHandler struct {
	store *draft.Store
	log   *logger.Logger
}

func NewDraftHandler(store *draft.Store, log *logger.Logger) *DraftHandler {
	return &DraftHandler{
		store: store,
		log:   log,
	}
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	saved, err := h.store.Load()
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Internal("failed to load draft", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if saved == nil {
		if writeErr := httputil.WriteError(w, apperrors.NotFound("draft")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, saved); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DraftHandler) Put(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body model.BookingDraft
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.store.Save(&body); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Internal("failed to save draft", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.store.Clear(); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Internal("failed to clear draft", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DraftHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/draft", h.Get)
	router.PUT("/api/v1/draft", h.Put)
	router.DELETE("/api/v1/draft", h.Delete)
}
