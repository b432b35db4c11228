package errors

import (
	"errors"
	"fmt"
)

// Error kinds shared by the token lifecycle and the stores behind it
var (
	// Session outcomes
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenExpired    = errors.New("token expired")
	ErrRotationDenied  = errors.New("rotation denied")
	ErrAccessDenied    = errors.New("access denied")

	// Token codec errors
	ErrSigning      = errors.New("signing failed")
	ErrVerification = errors.New("token verification failed")

	// Internal faults
	ErrIssuance    = errors.New("issuance failed")
	ErrPersistence = errors.New("persistence failure")

	// Store errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
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

// Join returns an error wrapping all of the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
