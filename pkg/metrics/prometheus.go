// Package metrics provides Prometheus metrics for the gridiron rating service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Walk duration buckets in milliseconds; a full multi-season replay is a few
// thousand games.
var walkBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Manager manages all Prometheus metrics for the rating service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Rating engine
	gamesProcessed  *prometheus.CounterVec
	ratingCommits   prometheus.Counter
	walkDuration    prometheus.Histogram
	walks           prometheus.Counter
	teamsTracked    prometheus.Gauge
	qbsTracked      prometheus.Gauge
	logLength       prometheus.Gauge
	forecastBrier   prometheus.Gauge
	lastWalkUnix    prometheus.Gauge
	inputRejections *prometheus.CounterVec

	// Recovered conditions
	geocodeFallbacks  prometheus.Counter
	missingPriors     prometheus.Counter
	numericDegenerate prometheus.Counter

	// Live submissions
	gamesSubmitted  prometheus.Counter
	gamesDuplicate  prometheus.Counter
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueued   prometheus.Counter
	queueRejected   *prometheus.CounterVec
	workerLatency   prometheus.Histogram
	workerErrors    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gridiron",
		subsystem:        "elo",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.gamesProcessed = auto.NewCounterVec(
		m.counterOpts("games_processed_total", "Games walked by the rating engine"),
		[]string{"status"},
	)
	m.ratingCommits = auto.NewCounter(m.counterOpts("rating_commits_total", "Team ratings committed to the store"))
	m.walkDuration = auto.NewHistogram(m.histogramOpts("walk_duration_milliseconds", "Duration of a full game log walk", walkBuckets))
	m.walks = auto.NewCounter(m.counterOpts("walks_total", "Full game log walks completed"))
	m.teamsTracked = auto.NewGauge(m.gaugeOpts("teams_tracked", "Teams with a live rating"))
	m.qbsTracked = auto.NewGauge(m.gaugeOpts("quarterbacks_tracked", "Quarterbacks with a live value"))
	m.logLength = auto.NewGauge(m.gaugeOpts("game_log_length", "Games in the annotated log"))
	m.forecastBrier = auto.NewGauge(m.gaugeOpts("forecast_brier_score", "Brier score of home win probabilities over completed games"))
	m.lastWalkUnix = auto.NewGauge(m.gaugeOpts("last_walk_unixtime", "Unix time of the last completed walk"))
	m.inputRejections = auto.NewCounterVec(
		m.counterOpts("input_rejections_total", "Game records rejected before rating"),
		[]string{"reason"},
	)

	m.geocodeFallbacks = auto.NewCounter(m.counterOpts("geocode_fallbacks_total", "Coordinate lookups that fell back to the continental center"))
	m.missingPriors = auto.NewCounter(m.counterOpts("missing_draft_priors_total", "Quarterbacks initialised without a draft prior"))
	m.numericDegenerate = auto.NewCounter(m.counterOpts("numeric_degenerate_total", "Margin of victory multipliers replaced by zero"))

	m.gamesSubmitted = auto.NewCounter(m.counterOpts("games_submitted_total", "Live games accepted for processing"))
	m.gamesDuplicate = auto.NewCounter(m.counterOpts("games_duplicate_total", "Live games rejected as duplicates"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Live games waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the live game queue"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Live games enqueued"))
	m.queueRejected = auto.NewCounterVec(
		m.counterOpts("queue_rejected_total", "Live games the queue refused"),
		[]string{"reason"},
	)
	m.workerLatency = auto.NewHistogram(m.histogramOpts("worker_apply_latency_milliseconds", "Time to apply one live game", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Live games the worker failed to apply"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and type"),
		[]string{"endpoint", "method", "error_type"},
	)
}

// Rating engine recorders.

func RecordGameProcessed(played bool) {
	if !globalManager.enabled {
		return
	}
	status := "pending"
	if played {
		status = "played"
	}
	globalManager.gamesProcessed.WithLabelValues(status).Inc()
}

func RecordRatingCommits(n int) {
	if globalManager.enabled {
		globalManager.ratingCommits.Add(float64(n))
	}
}

func RecordWalk(duration time.Duration, games int) {
	if !globalManager.enabled {
		return
	}
	globalManager.walks.Inc()
	globalManager.walkDuration.Observe(float64(duration.Microseconds()) / 1000)
	globalManager.logLength.Set(float64(games))
	globalManager.lastWalkUnix.Set(float64(time.Now().Unix()))
}

func UpdateLogLength(games int) {
	if globalManager.enabled {
		globalManager.logLength.Set(float64(games))
	}
}

func UpdateTracked(teams, qbs int) {
	if !globalManager.enabled {
		return
	}
	globalManager.teamsTracked.Set(float64(teams))
	globalManager.qbsTracked.Set(float64(qbs))
}

func UpdateForecastBrier(score float64) {
	if globalManager.enabled {
		globalManager.forecastBrier.Set(score)
	}
}

func RecordInputRejected(reason string) {
	if globalManager.enabled {
		globalManager.inputRejections.WithLabelValues(reason).Inc()
	}
}

// Recovered condition recorders.

func RecordGeocodeFallback() {
	if globalManager.enabled {
		globalManager.geocodeFallbacks.Inc()
	}
}

func RecordMissingPrior() {
	if globalManager.enabled {
		globalManager.missingPriors.Inc()
	}
}

func RecordNumericDegenerate() {
	if globalManager.enabled {
		globalManager.numericDegenerate.Inc()
	}
}

// Live submission recorders.

func RecordGameSubmitted() {
	if globalManager.enabled {
		globalManager.gamesSubmitted.Inc()
	}
}

func RecordGameDuplicate() {
	if globalManager.enabled {
		globalManager.gamesDuplicate.Inc()
	}
}

func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueued.Inc()
	}
}

func RecordQueueRejected(reason string) {
	if globalManager.enabled {
		globalManager.queueRejected.WithLabelValues(reason).Inc()
	}
}

func RecordWorkerLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.workerLatency.Observe(latencyMs)
	}
}

func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

// HTTP recorders.

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
