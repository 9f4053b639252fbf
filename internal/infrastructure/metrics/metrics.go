package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Completion counters
	CompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "completions_total",
			Help:      "Total LLM completion calls",
		},
		[]string{"grounding", "status"},
	)

	// Completion duration histogram
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "completion_duration_seconds",
			Help:      "LLM completion duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"grounding"},
	)

	// Transcription counters
	TranscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "transcriptions_total",
			Help:      "Total media transcription calls",
		},
		[]string{"status"},
	)

	// Title queue depth gauge
	TitleQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "title_queue_depth",
			Help:      "Pending background title tasks",
		},
	)

	// Title task counter
	TitleTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "panscience",
			Subsystem: "chat_api",
			Name:      "title_tasks_total",
			Help:      "Total background title tasks processed",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordCompletion records an LLM completion call
func RecordCompletion(grounding, status string, durationSec float64) {
	CompletionsTotal.WithLabelValues(grounding, status).Inc()
	CompletionDuration.WithLabelValues(grounding).Observe(durationSec)
}

// RecordTranscription records a transcription call
func RecordTranscription(status string) {
	TranscriptionsTotal.WithLabelValues(status).Inc()
}

// SetTitleQueueDepth sets the current title queue depth
func SetTitleQueueDepth(depth int) {
	TitleQueueDepth.Set(float64(depth))
}

// RecordTitleTask records a background title task
func RecordTitleTask(status string) {
	TitleTasksTotal.WithLabelValues(status).Inc()
}
