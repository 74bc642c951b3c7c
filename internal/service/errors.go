package service

import (
	"errors"
	"fmt"
)

// Kind tags an error with its place in the failure taxonomy. The HTTP layer
// maps kinds to status codes; the message travels to the caller verbatim.
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindInvalidRange      Kind = "InvalidRange"
	KindUnavailable       Kind = "Unavailable"
	KindSelfBooking       Kind = "SelfBooking"
	KindInvalidTransition Kind = "InvalidTransition"
	KindUnsupportedState  Kind = "UnsupportedState"
	KindValidation        Kind = "Validation"
	KindAlreadyExists     Kind = "AlreadyExists"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from an error chain; empty for errors
// that did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
