package errors

import (
	"errors"
	"fmt"
)

// Common error types for the partner client core
var (
	// Session errors
	ErrUnlinkedAccount  = errors.New("partner account not linked to an admin organisation")
	ErrStaleSession     = errors.New("persisted session is stale")
	ErrNotAuthenticated = errors.New("no authenticated session")

	// Location errors
	ErrNoPartnerData     = errors.New("no partner data available")
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// Storage errors
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")

	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
