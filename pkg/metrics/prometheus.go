// Package metrics provides Prometheus metrics for the vigil fall
// detection pipeline.
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

// Manager manages all Prometheus metrics for the vigil service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Pipeline Metrics - frame flow through the system
	framesCaptured  prometheus.Counter
	framesDropped   prometheus.Counter
	framesProcessed prometheus.Counter

	// Detection Metrics - what the pipeline exists for
	fallsDetected  prometheus.Counter
	fallConfidence prometheus.Histogram
	lastFallUnix   prometheus.Gauge

	// Inference Metrics - pose service performance
	inferenceLatency prometheus.Histogram
	inferenceErrors  prometheus.Counter

	// Processing Metrics - per-frame decision latency
	processingLatency prometheus.Histogram

	// Queue Metrics - frame queue health
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge

	// Error Metrics - detailed error tracking
	errorsByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vigil",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Pipeline Metrics
	m.framesCaptured = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_captured_total",
		Help:      "Total number of frames read from the video source",
	})

	m.framesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_dropped_total",
		Help:      "Total number of frames discarded because the queue was full",
	})

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of frames run through the detection pipeline",
	})

	// Detection Metrics
	m.fallsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "falls_detected_total",
		Help:      "Total number of fall events raised",
	})

	m.fallConfidence = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fall_confidence",
		Help:      "Confidence score distribution of raised fall events",
		Buckets:   []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})

	m.lastFallUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_fall_unix",
		Help:      "Unix timestamp of the most recent fall event",
	})

	// Inference Metrics
	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_milliseconds",
		Help:      "Pose inference round trip latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.inferenceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_errors_total",
		Help:      "Total number of failed pose inference requests",
	})

	// Processing Metrics
	m.processingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "processing_latency_milliseconds",
		Help:      "Per-frame decision pipeline latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Queue Metrics
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the frame queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum frame queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Frame queue utilization ratio (current size / capacity)",
	})

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordFrameCaptured increments the captured frames counter.
func RecordFrameCaptured() {
	globalManager.framesCaptured.Inc()
}

// RecordFrameDropped increments the dropped frames counter.
func RecordFrameDropped() {
	globalManager.framesDropped.Inc()
}

// RecordFrameProcessed increments the processed frames counter.
func RecordFrameProcessed() {
	globalManager.framesProcessed.Inc()
}

// RecordFall records a raised fall event with its confidence score.
func RecordFall(confidence float64) {
	globalManager.fallsDetected.Inc()
	globalManager.fallConfidence.Observe(confidence)
	globalManager.lastFallUnix.Set(float64(time.Now().Unix()))
}

// RecordInferenceLatency records pose inference latency in milliseconds.
func RecordInferenceLatency(latencyMs float64) {
	globalManager.inferenceLatency.Observe(latencyMs)
}

// RecordInferenceError increments the inference error counter.
func RecordInferenceError() {
	globalManager.inferenceErrors.Inc()
}

// RecordProcessingLatency records per-frame pipeline latency in milliseconds.
func RecordProcessingLatency(latencyMs float64) {
	globalManager.processingLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
