package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameAuthAttempts         = "auth_attempts_total"
	MetricNameGuestSessionsCreated = "guest_sessions_created_total"
	MetricNameGuestConversions     = "guest_conversions_total"
	MetricNameXPAwarded            = "xp_awarded_total"
	MetricNameLevelUps             = "level_ups_total"
	MetricNameSnapshotSaves        = "snapshot_saves_total"
	MetricNameSnapshotSaveFailures = "snapshot_save_failures_total"
	MetricNameSnapshotSaveLatency  = "snapshot_save_duration_seconds"
	MetricNameInventorySwaps       = "inventory_swaps_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextAuthAttempts         = "Total number of authentication attempts by flow and result"
	HelpTextGuestSessionsCreated = "Total number of guest sessions created"
	HelpTextGuestConversions     = "Total number of guest sessions converted to accounts"
	HelpTextXPAwarded            = "Total amount of XP awarded"
	HelpTextLevelUps             = "Total number of level-up transitions"
	HelpTextSnapshotSaves        = "Total number of successful inventory snapshot saves"
	HelpTextSnapshotSaveFailures = "Total number of failed inventory snapshot saves"
	HelpTextSnapshotSaveLatency  = "Inventory snapshot save latency in seconds"
	HelpTextInventorySwaps       = "Total number of inventory slot swaps committed"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelFlow   = "flow"
	LabelResult = "result"
)

// Values for the auth result label
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)
