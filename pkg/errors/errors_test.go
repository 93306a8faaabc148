package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad fields", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slot full"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
		{"unavailable", Unavailable("booking store"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	plain := NotFound("booking")
	if plain.Error() != "NOT_FOUND: booking not found" {
		t.Errorf("Error() = %q", plain.Error())
	}

	cause := errors.New("connection refused")
	wrapped := Internal("write failed", cause)
	want := "INTERNAL_ERROR: write failed (caused by: connection refused)"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("booking", "abc123")
	if err.Details["id"] != "abc123" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("slot full")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the same *AppError")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal || got.StatusCode() != http.StatusInternalServerError {
		t.Errorf("AsAppError(plain) = %+v, want internal wrapper", got)
	}

	if IsAppError(plain) {
		t.Error("IsAppError(plain) = true")
	}
	if !IsAppError(appErr) {
		t.Error("IsAppError(appErr) = false")
	}
}
