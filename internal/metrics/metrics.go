package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAuthAttempts,
			Help: HelpTextAuthAttempts,
		},
		[]string{LabelFlow, LabelResult},
	)

	GuestSessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGuestSessionsCreated,
			Help: HelpTextGuestSessionsCreated,
		},
	)

	GuestConversions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGuestConversions,
			Help: HelpTextGuestConversions,
		},
	)

	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPAwarded,
			Help: HelpTextXPAwarded,
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	SnapshotSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotSaves,
			Help: HelpTextSnapshotSaves,
		},
	)

	SnapshotSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotSaveFailures,
			Help: HelpTextSnapshotSaveFailures,
		},
	)

	SnapshotSaveLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSnapshotSaveLatency,
			Help:    HelpTextSnapshotSaveLatency,
			Buckets: HTTPLatencyBuckets,
		},
	)

	InventorySwaps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInventorySwaps,
			Help: HelpTextInventorySwaps,
		},
	)
)
