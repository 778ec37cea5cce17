package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Account Operations
const (
	ErrMsgFailedToInsertAccount = "failed to insert account"
	ErrMsgFailedToGetAccount    = "failed to get account"
	ErrMsgFailedToRecordSignIn  = "failed to record sign-in"
)

// Error Messages - Profile Operations
const (
	ErrMsgFailedToGetProfile    = "failed to get profile"
	ErrMsgFailedToUpsertProfile = "failed to upsert profile"
	ErrMsgFailedToMergeProfile  = "failed to merge profile"
)

// Error Messages - Snapshot Operations
const (
	ErrMsgFailedToGetSnapshot    = "failed to get snapshot"
	ErrMsgFailedToPutSnapshot    = "failed to put snapshot"
	ErrMsgFailedToDeleteSnapshot = "failed to delete snapshot"
)
