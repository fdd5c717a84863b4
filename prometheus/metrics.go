package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_login_total",
			Help: "Total number of login attempts by mode",
		},
		[]string{"mode"}, // mode can be "auto", "tenant", "agent", "refresh"
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realestate_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Listing operation counter
	ListingOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_listing_operations_total",
			Help: "Total number of listing operations",
		},
		[]string{"operation"}, // operation can be "create", "update", "delete", "list", etc.
	)

	// Favorite operation counter
	FavoriteOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_favorite_operations_total",
			Help: "Total number of favorite operations",
		},
		[]string{"operation"},
	)

	// Inquiry operation counter
	InquiryOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_inquiry_operations_total",
			Help: "Total number of inquiry operations",
		},
		[]string{"operation"}, // operation can be "create", "respond", "list", etc.
	)

	// Agent provisioning counter
	AgentProvisionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realestate_agent_provision_total",
			Help: "Total number of agent auto-provisioning attempts",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "role_mismatch", "invalid_token" etc.
	)

	// Policy denial counter
	PolicyDenialCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realestate_policy_denials_total",
			Help: "Total number of authorization denials by resource class",
		},
		[]string{"resource"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "realestate_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "realestate_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realestate_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "realestate_info",
			Help: "Information about the real estate service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(ListingOperationCounter)
	prometheus.MustRegister(FavoriteOperationCounter)
	prometheus.MustRegister(InquiryOperationCounter)
	prometheus.MustRegister(AgentProvisionCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(PolicyDenialCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordDenial records an authorization denial by resource class
func RecordDenial(resource string) {
	PolicyDenialCounter.With(prometheus.Labels{"resource": resource}).Inc()
}

// RecordListingOperation records a listing operation
func RecordListingOperation(operation string) {
	ListingOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordFavoriteOperation records a favorite operation
func RecordFavoriteOperation(operation string) {
	FavoriteOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordInquiryOperation records an inquiry operation
func RecordInquiryOperation(operation string) {
	InquiryOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}
