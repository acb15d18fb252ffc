package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes. It serializes as the response body.
type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *SimpleError) Error() string { return e.Message }
func (e *SimpleError) Code() int     { return e.Status }

// ListError carries every problem found, so a form can show them all at once.
type ListError struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (e *ListError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Errors)
}

func (e *ListError) Code() int { return e.Status }

var (
	InternalServerError    = NewSimple(http.StatusInternalServerError, "Internal server error")
	NotFoundError          = NewSimple(http.StatusNotFound, "Resource not found")
	MalformedBodyError     = NewSimple(http.StatusBadRequest, "Malformed request body")
	InvalidAuthTokenError  = NewSimple(http.StatusUnauthorized, "Invalid or missing authorization token")
	UnknownCallerError     = NewSimple(http.StatusForbidden, "Caller is not a registered user")
	ForbiddenError         = NewSimple(http.StatusForbidden, "You are not allowed to perform this action")
	UserAlreadyExistsError = NewSimple(http.StatusConflict, "A user with this email already exists")
	MomentNotAvailable     = NewSimple(http.StatusConflict, "The doctor already has an appointment at this moment")
	UnknownActionError     = NewSimple(http.StatusBadRequest, "Unknown status action")
	DoctorNotFoundError    = NewSimple(http.StatusBadRequest, "Doctor does not exist or is not staff")
)

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

func NewMissingParamError(name string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", name))
}

func NewInvalidParamTypeError(name, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", name, expected))
}

func NewValidationListError(problems []string) *ListError {
	return &ListError{Status: http.StatusBadRequest, Message: "Validation failed", Errors: problems}
}

// NewIllegalTransitionError reports a status change the transition table does not allow.
// from and to are display names.
func NewIllegalTransitionError(from, to string, terminal bool) *SimpleError {
	if terminal {
		return NewSimple(http.StatusConflict, fmt.Sprintf("Cannot move from %s to any state", from))
	}
	return NewSimple(http.StatusConflict, fmt.Sprintf("Cannot move from %s to %s", from, to))
}

func FromValidationError(err error) ErrorResponse {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return MalformedBodyError
	}

	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		if fe.Param() != "" {
			problems[i] = fmt.Sprintf("field '%s' failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		} else {
			problems[i] = fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag())
		}
	}
	return NewValidationListError(problems)
}
