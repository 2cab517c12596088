package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrValidation = errors.New("validation failed")

	ErrConflict = errors.New("slot unavailable")

	ErrInvalidTransition = errors.New("status transition not permitted")

	ErrForbidden = errors.New("actor lacks rights over this resource")

	// ErrRetryable marks a storage-level write conflict. The engine retries
	// once before surfacing ErrConflict to the caller.
	ErrRetryable = errors.New("storage write conflict")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
