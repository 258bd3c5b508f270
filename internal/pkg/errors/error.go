package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict: resource already exists")
	ErrInternal          = errors.New("internal error")
	ErrUpstream          = errors.New("upstream request failed")
	ErrNotReady          = errors.New("session is still initializing")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrCredentialExpired = errors.New("credential expired")
	ErrUnknownRole       = errors.New("unknown role")
	ErrLoginInFlight     = errors.New("a login is already in progress")
	ErrStaleResult       = errors.New("result superseded by a newer session change")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidSlot       = errors.New("appointment time is not an available slot")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
