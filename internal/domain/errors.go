package domain

import (
	"errors"
	"strings"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already in use")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicate      = errors.New("duplicate resource")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrMissingPIB     = errors.New("account has no PIB set")
	ErrDeliveryFailed = errors.New("delivery failed")
)

// ValidationError carries every validation failure detected for a request, in
// the order the fields were checked. Nothing is persisted when it is returned:
// the caller gets the complete picture in one round trip.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, ", ")
}

// NewValidationError builds a ValidationError from the accumulated messages.
func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
