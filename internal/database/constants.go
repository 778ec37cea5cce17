package database

const (
	// DefaultMinConnections is the floor of idle connections the pool keeps warm
	DefaultMinConnections = 2
)

// Error messages for pool construction
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log messages
const (
	LogMsgConnected = "Connected to the database"
)
