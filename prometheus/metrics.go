package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ritikk978/next-nest/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Domain operation metrics
	PropertyOperationsCounter prometheus.CounterVec
	BookingOperationsCounter  prometheus.CounterVec
	PaymentOperationsCounter  prometheus.CounterVec

	// Booking conflict metrics
	SlotConflictsCounter prometheus.Counter

	// Payment volume metrics
	PaymentAmountTotal prometheus.CounterVec

	// Listing cache metrics
	ListingCacheHits   prometheus.Counter
	ListingCacheMisses prometheus.Counter

	// Property popularity metrics
	PropertyViewsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	PropertyOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_property_operations_total",
			Help: "Total number of property listing operations",
		},
		[]string{"operation"},
	)

	BookingOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_booking_operations_total",
			Help: "Total number of booking operations",
		},
		[]string{"operation"},
	)

	PaymentOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payment_operations_total",
			Help: "Total number of payment operations",
		},
		[]string{"operation", "type"},
	)

	SlotConflictsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_booking_slot_conflicts_total",
			Help: "Total number of booking requests rejected for slot conflicts",
		},
	)

	PaymentAmountTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payment_amount_total",
			Help: "Total settled payment volume by transaction type",
		},
		[]string{"type"},
	)

	ListingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_listing_cache_hits_total",
			Help: "Total number of listing search cache hits",
		},
	)

	ListingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_listing_cache_misses_total",
			Help: "Total number of listing search cache misses",
		},
	)

	// Labelled by city only; per-property labels would grow the series
	// set with the table
	PropertyViewsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_property_views_total",
			Help: "Total number of property detail views",
		},
		[]string{"city"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordPropertyOperation increments the counter for property operations
func RecordPropertyOperation(operation string) {
	PropertyOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordBookingOperation increments the counter for booking operations
func RecordBookingOperation(operation string) {
	BookingOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPaymentOperation increments the counter for payment operations
func RecordPaymentOperation(operation, txnType string) {
	PaymentOperationsCounter.WithLabelValues(operation, txnType).Inc()
}

// RecordPaymentAmount adds a settled payment to the volume counter
func RecordPaymentAmount(txnType string, amount float64) {
	PaymentAmountTotal.WithLabelValues(txnType).Add(amount)
}

// RecordPropertyView increments the counter for property detail views
func RecordPropertyView(city string) {
	PropertyViewsCounter.WithLabelValues(city).Inc()
}
