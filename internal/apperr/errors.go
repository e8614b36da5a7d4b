// Package apperr holds the sentinel errors shared by services and transports.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
)

// Validation wraps a user-facing reason so callers can match ErrValidation.
func Validation(reason error) error {
	if reason == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, reason.Error())
}

// Reason strips the sentinel prefix and returns the human-readable part.
func Reason(err error) string {
	msg := err.Error()
	prefix := ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
