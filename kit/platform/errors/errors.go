// Package errors defines the coded error type returned across fieldclip
// and helpers to read it back out of wrapped errors.
package errors

import (
	"errors"
	"fmt"
)

// Error codes shared by every fieldclip package. Transports map these onto
// their own status values; see kit/transport/http.
const (
	EInternal         = "internal error"
	ENotFound         = "not found"
	EInvalid          = "invalid" // validation failed
	EUnavailable      = "unavailable"
	EMethodNotAllowed = "method not allowed"
	ETooLarge         = "request too large"
)

const internalMessage = "An internal error has occurred."

// Error carries a machine-readable Code, a Msg for whoever wrote the field
// description, and an Op naming where it happened. Err links to the cause
// so that nested errors form a logical stack trace:
//
//	&Error{
//	    Code: EInvalid,
//	    Op:   "fieldclip/DecodeNode",
//	    Msg:  "condition_field is required",
//	}
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// Error joins Msg with the message of the wrapped error.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the first code found along the chain of *Error values
// in err, or EInternal when there is none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if code := lookup(err, func(e *Error) string { return e.Code }); code != "" {
		return code
	}
	return EInternal
}

// ErrorOp returns the first op found along the chain, or "".
func ErrorOp(err error) string {
	return lookup(err, func(e *Error) string { return e.Op })
}

// ErrorMessage returns the first human-readable message found along the
// chain. Errors without one get a generic message so that internal detail
// is not shown to users.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := lookup(err, func(e *Error) string { return e.Msg }); msg != "" {
		return msg
	}
	return internalMessage
}

func lookup(err error, field func(*Error) string) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) || e == nil {
			return ""
		}
		if v := field(e); v != "" {
			return v
		}
		err = e.Err
	}
	return ""
}
