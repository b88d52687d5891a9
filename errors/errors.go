package errors

import (
	stderrors "errors"
	"fmt"
)

// Categories. Specific errors wrap one of them so callers can test with Is.
var (
	ErrValidation    = fmt.Errorf("validation error")
	ErrAuthorization = fmt.Errorf("authorization error")
	ErrRateLimit     = fmt.Errorf("rate limit exceeded")
	ErrPersistence   = fmt.Errorf("persistence error")
	ErrNotFound      = fmt.Errorf("not found")
	ErrUnauthorized  = fmt.Errorf("unauthenticated")
)

var (
	ErrEmptyMessage       = fmt.Errorf("%w: message body is empty", ErrValidation)
	ErrRoomNotFound       = fmt.Errorf("%w: room not found", ErrValidation)
	ErrInvalidIdentity    = fmt.Errorf("%w: malformed identity", ErrValidation)
	ErrUnknownAction      = fmt.Errorf("%w: unknown moderation action", ErrValidation)
	ErrRoomsFrozen        = fmt.Errorf("%w: rooms can only be created at startup", ErrValidation)
	ErrNotAdmin           = fmt.Errorf("%w: caller is not an administrator", ErrAuthorization)
	ErrBlocked            = fmt.Errorf("%w: identity is blocked", ErrAuthorization)
	ErrBanned             = fmt.Errorf("%w: identity is banned", ErrAuthorization)
	ErrGuest              = fmt.Errorf("%w: guests cannot perform this action", ErrAuthorization)
	ErrInviteNotFound     = fmt.Errorf("%w: invite code", ErrNotFound)
	ErrMessageNotFound    = fmt.Errorf("%w: message", ErrNotFound)
	ErrTableMissing       = fmt.Errorf("%w: table does not exist", ErrPersistence)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrSessionClosed      = fmt.Errorf("session closed")
)

// Is and As are re-exported so callers importing this package do not also need the standard one.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Persistence wraps a storage failure into the persistence category.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
