package analytics

import (
	"errors"
	"fmt"
)

// Kind separates input problems from persistence problems. The HTTP
// layer currently collapses both into one generic failure response, but
// the distinction is kept at the service boundary so status codes could
// diverge later without touching the services.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindStorage
)

// Error is a service failure with a Kind and an optional cause.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func storage(msg string, cause error) error {
	return &Error{Kind: KindStorage, msg: msg, err: cause}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsStorage reports whether err is a storage failure.
func IsStorage(err error) bool { return kindOf(err) == KindStorage }

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
