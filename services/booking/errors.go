package booking

import (
	"errors"
	"fmt"
)

// Machine-readable error codes returned by the booking service. Handlers map
// these onto HTTP statuses; clients switch on them.
const (
	CodeUnauthenticated      = "unauthenticated"
	CodeForbidden            = "forbidden"
	CodeNotFound             = "notFound"
	CodeInvalidInterval      = "invalidInterval"
	CodeInvalidInput         = "invalidInput"
	CodeServiceMismatch      = "serviceMismatch"
	CodeInactiveArtisan      = "inactiveArtisan"
	CodeSlotConflict         = "slotConflict"
	CodeAlreadyHandled       = "alreadyHandled"
	CodeInvalidState         = "invalidState"
	CodeModificationConflict = "modificationConflict"
	CodeInvalidAction        = "invalidAction"
	CodeTransientStore       = "transientStore"
)

// BookingError carries a stable code plus a human-readable message. Internal
// storage detail never leaks through it.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *BookingError {
	return &BookingError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrCode extracts the booking error code from err, or "" when err is not a
// BookingError.
func ErrCode(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// ErrMessage extracts the human-readable message without the code prefix.
func ErrMessage(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
