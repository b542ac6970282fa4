// Package apperr carries typed application errors across the HTTP and gRPC
// surfaces so both can map a failure to the right status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

type Code string

const (
	CodeInvalidArgument    Code = "invalid_argument"
	CodeNotFound           Code = "not_found"
	CodeFailedPrecondition Code = "failed_precondition"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error code onto the status the JSON API responds with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeFailedPrecondition:
		return http.StatusUnprocessableEntity
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) GRPCCode() codes.Code {
	switch e.Code {
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	case CodeFailedPrecondition:
		return codes.FailedPrecondition
	case CodeUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func InvalidArgument(message string, cause error) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message, Cause: cause}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func FailedPrecondition(message string, cause error) *Error {
	return &Error{Code: CodeFailedPrecondition, Message: message, Cause: cause}
}

func Unavailable(message string, cause error) *Error {
	return &Error{Code: CodeUnavailable, Message: message, Cause: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, Cause: cause}
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// HTTPStatus returns the status for any error, defaulting to 500 for errors
// that carry no application code.
func HTTPStatus(err error) int {
	if e, ok := As(err); ok {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// PublicMessage is the message safe to show a client. Internal causes are
// never exposed.
func PublicMessage(err error) string {
	if e, ok := As(err); ok {
		if e.Code == CodeInternal {
			return "internal error"
		}
		return e.Message
	}
	return "internal error"
}
