package apperror

import (
	"errors"
	"strings"
)

// Kind is the caller-visible category of a failure.
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindConfiguration Kind = "configuration_error"
	KindUpstream      Kind = "upstream_error"
	KindAuthorization Kind = "forbidden"
	KindRateLimited   Kind = "rate_limited"
)

var (
	ErrValidation    = &Error{Kind: KindValidation, Code: "validation_error", Message: "validation error"}
	ErrConfiguration = &Error{Kind: KindConfiguration, Code: "configuration_error", Message: "server configuration incomplete"}
	ErrUpstream      = &Error{Kind: KindUpstream, Code: "upstream_error", Message: "upstream request failed"}
	ErrAuthorization = &Error{Kind: KindAuthorization, Code: "forbidden", Message: "forbidden"}
	ErrRateLimited   = &Error{Kind: KindRateLimited, Code: "rate_limited", Message: "too many requests"}
)

// Error carries a kind, a stable machine code and a short human message.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Code
	if strings.TrimSpace(e.Message) != "" {
		msg = e.Code + ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *Error with the same code, or a kind sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if t.Code == string(t.Kind) {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of e that carries cause.
func (e *Error) Wrap(cause error) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Err = cause
	return &clone
}

// WithMessage returns a copy of e with a different message.
func (e *Error) WithMessage(message string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Message = message
	return &clone
}

func Validation(field, code, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Code: code, Message: message}
}

func Configuration(code, message string) *Error {
	return &Error{Kind: KindConfiguration, Code: code, Message: message}
}

func Upstream(code, message string) *Error {
	return &Error{Kind: KindUpstream, Code: code, Message: message}
}

func Authorization(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

func RateLimited(code, message string) *Error {
	return &Error{Kind: KindRateLimited, Code: code, Message: message}
}

// As returns the first *Error in err's chain.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
