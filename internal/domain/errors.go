package domain

import (
	"errors"
	"fmt"
)

// Sentinel business errors, mapped to HTTP statuses in one place (transport/web/v1).
var (
	ErrBadParams        = errors.New("bad_params")         // 400
	ErrUnauth           = errors.New("unauthorized")       // 401
	ErrForbidden        = errors.New("forbidden")          // 403
	ErrNotFound         = errors.New("not_found")          // 404
	ErrMethodNotAllowed = errors.New("method_not_allowed") // 405
	ErrUnexpected       = errors.New("unexpected")         // 500
)

// Fault carries a caller-visible message tagged with one of the sentinels above.
// The classification is fixed at the throw site, never derived from message text.
// Cause, when set, shows up in logs via Error() but never in UserMessage.
type Fault struct {
	Kind  error
	Msg   string
	Cause error
}

func (f *Fault) Error() string {
	if f.Cause != nil {
		return f.Msg + ": " + f.Cause.Error()
	}
	return f.Msg
}

func (f *Fault) Unwrap() []error {
	if f.Cause != nil {
		return []error{f.Kind, f.Cause}
	}
	return []error{f.Kind}
}

func Invalid(format string, args ...any) error {
	return &Fault{Kind: ErrBadParams, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Fault{Kind: ErrUnauth, Msg: msg}
}

func AccessDenied(msg string) error {
	return &Fault{Kind: ErrForbidden, Msg: msg}
}

func NotFound(format string, args ...any) error {
	return &Fault{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps a store/provider failure with a contextual message.
// The wrapped cause stays server-side; only Msg is shown to the caller.
func Upstream(msg string, cause error) error {
	return &Fault{Kind: ErrUnexpected, Msg: msg, Cause: cause}
}

// UserMessage returns the caller-visible text for err, or a generic fallback.
func UserMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Msg
	}
	switch {
	case errors.Is(err, ErrBadParams):
		return "bad params"
	case errors.Is(err, ErrUnauth):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrMethodNotAllowed):
		return "method not allowed"
	default:
		return "unexpected error"
	}
}
