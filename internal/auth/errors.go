package auth

import (
	"errors"

	"github.com/slotdeck/server/internal/domain"
)

// providerErrorMap translates upstream identity-provider error codes into
// domain sentinels with user-facing messages.
var providerErrorMap = map[string]error{
	"auth/user-not-found":          domain.ErrUserNotFound,
	"auth/wrong-password":          domain.ErrWrongPassword,
	"auth/invalid-credential":      domain.ErrWrongPassword,
	"auth/email-already-in-use":    domain.ErrEmailInUse,
	"auth/weak-password":           domain.ErrWeakPassword,
	"auth/invalid-email":           domain.ErrInvalidEmail,
	"auth/too-many-requests":       domain.ErrTooManyRequests,
	"auth/network-request-failed":  domain.ErrNetworkFailure,
	"auth/popup-blocked":           domain.ErrPopupClosed,
	"auth/popup-closed-by-user":    domain.ErrPopupClosed,
	"auth/cancelled-popup-request": domain.ErrPopupClosed,
	"auth/operation-not-allowed":   domain.ErrOperationNotAllowed,
	"auth/user-disabled":           domain.ErrUserDisabled,
}

// MapProviderError converts a provider error code into a domain error.
// Unmapped codes fall back to the raw provider message; total absence of
// a message falls back to a generic error.
func MapProviderError(code, message string) error {
	if err, ok := providerErrorMap[code]; ok {
		return err
	}
	if message != "" {
		return errors.New(message)
	}
	return errors.New(domain.ErrMsgUnexpectedAuth)
}
