package validators

import (
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Register adds every generic tag of this package to validate.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("isodate", IsIsoDate)
	_ = validate.RegisterValidation("clocktime", IsClockTime)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
}

// IsIsoDate accepts calendar dates such as 2025-08-31.
func IsIsoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// IsClockTime accepts 24h wall clock times such as 09:30.
func IsClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(TimeLayout, fl.Field().String())
	return err == nil
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}
