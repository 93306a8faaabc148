package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Missing bool   `json:"-"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// MissingFields lists the required fields that were blank, in struct
// order, for the aggregate submit-time message.
func (v ValidationErrors) MissingFields() []string {
	var fields []string
	for _, err := range v {
		if err.Missing {
			fields = append(fields, err.Field)
		}
	}
	return fields
}

// Details maps field name to message for per-field surfacing.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("timeslot", validateTimeSlot); err != nil {
		log.Fatal("Failed to register 'timeslot' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		log:      log,
	}
}

func validateTimeSlot(fl validator.FieldLevel) bool {
	return model.IsValidSlot(fl.Field().String())
}

// Validate checks a fully assembled booking record. Whitespace-only
// required fields count as missing, matching how the form treats them.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	checked := *booking
	checked.Name = strings.TrimSpace(checked.Name)
	checked.Date = strings.TrimSpace(checked.Date)
	checked.Slot = strings.TrimSpace(checked.Slot)

	if err := v.validate.Struct(&checked); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}

	return nil
}

func (v *BookingValidator) translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD date", err.Field())
		case "timeslot":
			message = fmt.Sprintf("%s must be one of the facility's time slots", err.Field())
		}

		out = append(out, ValidationError{
			Field:   err.Field(),
			Message: message,
			Missing: err.Tag() == "required",
		})
	}

	return out
}
