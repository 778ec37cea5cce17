package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Session operation error messages
	ErrMsgLoginFailed          = "Failed to sign in"
	ErrMsgRegisterFailed       = "Failed to create account"
	ErrMsgLogoutFailed         = "Failed to sign out"
	ErrMsgResetPasswordFailed  = "Failed to send password reset"
	ErrMsgGuestSessionFailed   = "Failed to start guest session"
	ErrMsgConvertGuestFailed   = "Failed to convert guest account"
	ErrMsgAddXPFailed          = "Failed to award XP"
	ErrMsgResolveSessionFailed = "Failed to resolve session"

	// Inventory operation error messages
	ErrMsgPlaceItemFailed  = "Failed to place item"
	ErrMsgRemoveSlotFailed = "Failed to clear slot"
	ErrMsgSwapFailed       = "Failed to swap slots"

	// Sync operation error messages
	ErrMsgSaveFailed = "Failed to save inventory"

	// Parameter validation error messages
	ErrMsgInvalidSlotParam = "Invalid slot parameter"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgLoggedOut         = "Signed out"
	MsgPasswordResetSent = "Password reset email sent"
	MsgInventoryCleared  = "Inventory cleared"
	MsgInventoryReset    = "Default layout restored"
	MsgSnapshotSaved     = "Inventory saved"
	MsgSyncErrorCleared  = "Sync error cleared"
	MsgDragCancelled     = "Drag cancelled"
)
