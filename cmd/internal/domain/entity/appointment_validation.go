package entity

import (
	"errors"
	"fmt"
	"time"

	"clinicportal/cmd/internal/utils/validators"
	"github.com/go-playground/validator/v10"
)

// AppointmentDraft is an appointment as submitted by a booking form.
// Any field may be empty.
type AppointmentDraft struct {
	Date       string          `json:"date" validate:"required,isodate"`
	Time       string          `json:"time" validate:"required,clocktime"`
	Type       AppointmentType `json:"type" validate:"required,appttype"`
	Department Department      `json:"department" validate:"required,department"`
	Notes      string          `json:"notes" validate:"max=1000"`
	Location   string          `json:"location" validate:"max=255"`
}

var draftValidate = newDraftValidator()

func newDraftValidator() *validator.Validate {
	validate := validator.New()
	validators.Register(validate)
	RegisterValidators(validate)
	return validate
}

// RegisterValidators adds the domain enum tags to validate.
func RegisterValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("appttype", func(fl validator.FieldLevel) bool {
		return AppointmentType(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return Department(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).IsValid()
	})
}

// ValidateAppointment returns every problem found in draft, or an empty slice.
func ValidateAppointment(draft *AppointmentDraft) []string {
	return ValidateAppointmentAt(draft, time.Now())
}

// ValidateAppointmentAt is ValidateAppointment with an explicit current time.
// A date is in the past when its day is before the day of now, in now's location.
func ValidateAppointmentAt(draft *AppointmentDraft, now time.Time) []string {
	problems := make([]string, 0)
	if draft == nil {
		draft = &AppointmentDraft{}
	}

	var fieldErrs validator.ValidationErrors
	if err := draftValidate.Struct(draft); errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			problems = append(problems, draftMessage(fe))
		}
	}

	if draft.Date == "" {
		return problems
	}
	day, err := time.ParseInLocation(validators.DateLayout, draft.Date, now.Location())
	if err != nil {
		return problems
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		problems = append(problems, "Appointment date cannot be in the past")
	}
	return problems
}

func draftMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		switch fe.Field() {
		case "Type":
			return "Appointment type is required"
		default:
			return fe.Field() + " is required"
		}
	}

	switch fe.Tag() {
	case "isodate":
		return "Date must use the YYYY-MM-DD format"
	case "clocktime":
		return "Time must use the HH:MM format"
	case "appttype":
		return fmt.Sprintf("Unknown appointment type: %v", fe.Value())
	case "department":
		return fmt.Sprintf("Unknown department: %v", fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
