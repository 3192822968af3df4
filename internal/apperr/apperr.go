// Package apperr classifies failures that reach the edges of the service.
package apperr

import (
	"errors"
	"net/http"
)

// Kind tells the transport layer how a failure should be reported.
type Kind int

const (
	// KindUnknown is any error not produced by this package.
	KindUnknown Kind = iota
	// KindBadRequest means the caller supplied an empty or invalid input.
	KindBadRequest
	// KindDependencyFailure means the model service or the mail provider failed.
	KindDependencyFailure
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindDependencyFailure:
		return "dependency_failure"
	default:
		return "unknown"
	}
}

const internalMessage = "Internal server error"

// Error carries a message that is safe to show to the caller and the
// underlying cause that only goes to logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BadRequest reports invalid caller input.
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// DependencyFailure reports a failed downstream call, keeping err for logs.
func DependencyFailure(msg string, err error) *Error {
	return &Error{Kind: KindDependencyFailure, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PublicMessage returns the caller-facing message for err. Causes are never
// included.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return internalMessage
}

// HTTPStatus maps a kind onto a response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
