package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete causes are joined to one of these so callers can
// branch on the kind with errors.Is and still report the cause.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrFetch           = errors.New("store read failed")
	ErrWrite           = errors.New("store write failed")
)

func ValidationError(cause error) error {
	return fmt.Errorf("%w: %w", ErrValidation, cause)
}

func FetchError(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrFetch, op, cause)
}

func WriteError(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrWrite, op, cause)
}

// IsRetryable reports whether err came from the store rather than from the caller's input.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrFetch) || errors.Is(err, ErrWrite)
}
