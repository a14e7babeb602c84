package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Gateway      Kind = "gateway"
	Dispatch     Kind = "dispatch"
	Internal     Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string // safe to show to the caller
	Err     error  // internal cause, for logs
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidErr(message string) *Error {
	return &Error{Kind: Invalid, Message: message}
}

func NotFoundErr(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

func UnauthorizedErr(message string) *Error {
	return &Error{Kind: Unauthorized, Message: message}
}

func GatewayErr(message string, err error) *Error {
	return &Error{Kind: Gateway, Message: message, Err: err}
}

func DispatchErr(message string, err error) *Error {
	return &Error{Kind: Dispatch, Message: message, Err: err}
}

func InternalErr(message string, err error) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid:
			return http.StatusBadRequest
		case NotFound:
			return http.StatusNotFound
		case Unauthorized:
			return http.StatusUnauthorized
		case Gateway, Dispatch:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func Message(err error) string {
	if ae, ok := As(err); ok && ae.Message != "" {
		return ae.Message
	}
	return "something went wrong"
}
