package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a hierarchy node or question cannot be located
// against any known source. Terminal for the current operation, never retried.
var ErrNotFound = errors.New("not found")

// NotFoundError wraps ErrNotFound with a description of what was looked up.
func NotFoundError(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}

// BadRequestError signals a structural or business-rule violation. The Reason
// is human-readable and surfaced verbatim to the caller.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return e.Reason
}

// BadRequest constructs a BadRequestError with the given reason.
func BadRequest(reason string) error {
	return &BadRequestError{Reason: reason}
}

// IsBadRequest reports whether err is a BadRequestError and returns its reason.
func IsBadRequest(err error) (string, bool) {
	var br *BadRequestError
	if errors.As(err, &br) {
		return br.Reason, true
	}
	return "", false
}
