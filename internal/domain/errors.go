package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Inventory errors
	ErrMsgInvalidSlot = "invalid slot index"
	ErrMsgDragActive  = "a drag is already active"
	ErrMsgNoDrag      = "no drag in progress"

	// Item errors
	ErrMsgItemNotFound = "item not found"

	// Session errors
	ErrMsgNotGuest        = "no active guest session"
	ErrMsgSessionConflict = "a session is already active"

	// Auth errors (mapped from gateway codes)
	ErrMsgUserNotFound       = "user not found"
	ErrMsgWrongPassword      = "incorrect password"
	ErrMsgEmailInUse         = "email already in use"
	ErrMsgWeakPassword       = "password is too weak"
	ErrMsgInvalidEmail       = "invalid email address"
	ErrMsgTooManyRequests    = "too many attempts, try again later"
	ErrMsgNetworkFailure     = "network request failed"
	ErrMsgPopupClosed        = "sign-in window was closed"
	ErrMsgOperationNotAllowed = "operation not allowed"
	ErrMsgUserDisabled       = "account has been disabled"
	ErrMsgUnexpectedAuth     = "an unexpected error occurred"

	// Profile errors
	ErrMsgProfileNotFound = "profile not found"

	// Snapshot errors
	ErrMsgSnapshotNotFound = "snapshot not found"

	// Audio errors
	ErrMsgUnknownTrack  = "unknown track"
	ErrMsgInvalidVolume = "volume out of range"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Inventory errors
	ErrInvalidSlot = errors.New(ErrMsgInvalidSlot)
	ErrDragActive  = errors.New(ErrMsgDragActive)
	ErrNoDrag      = errors.New(ErrMsgNoDrag)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)

	// Session errors
	ErrNotGuest        = errors.New(ErrMsgNotGuest)
	ErrSessionConflict = errors.New(ErrMsgSessionConflict)

	// Auth errors
	ErrUserNotFound        = errors.New(ErrMsgUserNotFound)
	ErrWrongPassword       = errors.New(ErrMsgWrongPassword)
	ErrEmailInUse          = errors.New(ErrMsgEmailInUse)
	ErrWeakPassword        = errors.New(ErrMsgWeakPassword)
	ErrInvalidEmail        = errors.New(ErrMsgInvalidEmail)
	ErrTooManyRequests     = errors.New(ErrMsgTooManyRequests)
	ErrNetworkFailure      = errors.New(ErrMsgNetworkFailure)
	ErrPopupClosed         = errors.New(ErrMsgPopupClosed)
	ErrOperationNotAllowed = errors.New(ErrMsgOperationNotAllowed)
	ErrUserDisabled        = errors.New(ErrMsgUserDisabled)

	// Profile errors
	ErrProfileNotFound = errors.New(ErrMsgProfileNotFound)

	// Snapshot errors
	ErrSnapshotNotFound = errors.New(ErrMsgSnapshotNotFound)

	// Audio errors
	ErrUnknownTrack  = errors.New(ErrMsgUnknownTrack)
	ErrInvalidVolume = errors.New(ErrMsgInvalidVolume)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
