package reservation

import "fmt"

// Code tags an Error with the taxonomy category from spec.md §7.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeNoAvailability   Code = "NO_AVAILABILITY"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyCancelled Code = "ALREADY_CANCELLED"
	CodeInternal         Code = "INTERNAL"
)

// Error is the tagged result an Engine operation returns on failure; the
// core never uses panics for expected flow-control paths.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var errNoAvailability = &Error{Code: CodeNoAvailability, Message: "no availability for the requested group size"}
