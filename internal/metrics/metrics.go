package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Forecast API metrics
var (
	// ForecastFetchesTotal counts forecast fetches by outcome kind
	ForecastFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsm_forecast_fetches_total",
			Help: "Total number of forecast fetches by outcome",
		},
		[]string{"outcome"},
	)

	// ForecastFetchDuration tracks the latency of forecast fetches
	ForecastFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gsm_forecast_fetch_duration_seconds",
			Help:    "Duration of forecast fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// ForecastHoursReturned tracks how many hourly items successful fetches carry
	ForecastHoursReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gsm_forecast_hours_returned",
			Help:    "Number of hourly items in returned forecasts",
			Buckets: []float64{1, 6, 12, 24, 48, 72, 120, 172},
		},
	)
)

// HTTP server metrics
var (
	// HTTPRequestsTotal counts handled requests by route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsm_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "code"},
	)
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of established connections both in use and idle",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle connections",
		},
	)
)

// AppStartTime records when the process started
var AppStartTime = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "gsm_app_start_time_seconds",
		Help: "Unix timestamp of when the application started",
	},
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordForecastFetch records one forecast fetch
func RecordForecastFetch(outcome string, duration time.Duration) {
	ForecastFetchesTotal.WithLabelValues(outcome).Inc()
	ForecastFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordHTTPRequest records one handled HTTP request
func RecordHTTPRequest(route string, code int) {
	HTTPRequestsTotal.WithLabelValues(route, statusLabel(code)).Inc()
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DBQueriesTotal.WithLabelValues(queryType, table, status).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(open, inUse, idle int) {
	DBConnectionsOpen.Set(float64(open))
	DBConnectionsInUse.Set(float64(inUse))
	DBConnectionsIdle.Set(float64(idle))
}
