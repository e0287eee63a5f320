package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dispatch service metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	RemoteCallsTotal   *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec

	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	SubmissionsTotal      *prometheus.CounterVec
	SelectionWeightKg     prometheus.Gauge
	SelectionSize         prometheus.Gauge
	WeightRejectionsTotal prometheus.Counter
	PalletsAssignedTotal  prometheus.Counter
	ReleasesCreatedTotal  prometheus.Counter

	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "tarima",
	}
}

// New creates a new Metrics instance on its own registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	ns := config.Namespace
	constLabels := prometheus.Labels{"service": config.ServiceName}

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total", Help: "Total number of HTTP requests", ConstLabels: constLabels},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   ns,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		},
		[]string{"method", "path"},
	)
	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_in_flight", Help: "Number of HTTP requests currently being processed", ConstLabels: constLabels},
	)

	m.RemoteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "remote_calls_total", Help: "Calls to the inventory and release service", ConstLabels: constLabels},
		[]string{"operation", "outcome"},
	)
	m.RemoteCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   ns,
			Name:        "remote_call_duration_seconds",
			Help:        "Inventory and release service call duration in seconds",
			Buckets:     []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "kafka_events_published_total", Help: "Total number of Kafka events published", ConstLabels: constLabels},
		[]string{"topic", "event_type", "status"},
	)
	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   ns,
			Name:        "kafka_publish_duration_seconds",
			Help:        "Kafka publish duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: constLabels,
		},
		[]string{"topic"},
	)

	m.SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "submissions_total", Help: "Submission workflow executions by outcome", ConstLabels: constLabels},
		[]string{"outcome"},
	)
	m.SelectionWeightKg = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: ns, Name: "selection_gross_weight_kg", Help: "Gross weight of the current selection", ConstLabels: constLabels},
	)
	m.SelectionSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: ns, Name: "selection_pallets", Help: "Number of pallets in the current selection", ConstLabels: constLabels},
	)
	m.WeightRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: ns, Name: "weight_limit_rejections_total", Help: "Selection insertions refused by the weight ceiling", ConstLabels: constLabels},
	)
	m.PalletsAssignedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: ns, Name: "pallets_assigned_total", Help: "Pallets marked as assigned to a delivery", ConstLabels: constLabels},
	)
	m.ReleasesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: ns, Name: "releases_created_total", Help: "Releases created in the remote service", ConstLabels: constLabels},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: ns, Name: "circuit_breaker_state", Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)", ConstLabels: constLabels},
		[]string{"name"},
	)
	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "circuit_breaker_trips_total", Help: "Times a circuit breaker opened", ConstLabels: constLabels},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.RemoteCallsTotal,
		m.RemoteCallDuration,
		m.KafkaEventsPublished,
		m.KafkaPublishDuration,
		m.SubmissionsTotal,
		m.SelectionWeightKg,
		m.SelectionSize,
		m.WeightRejectionsTotal,
		m.PalletsAssignedTotal,
		m.ReleasesCreatedTotal,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns the HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments the in-flight gauge
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements the in-flight gauge
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Dec()
}

// RecordRemoteCall records a call to the inventory service.
// outcome is "success", "rejected" (status >= 400) or "error" (no response).
func (m *Metrics) RecordRemoteCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RemoteCallsTotal.WithLabelValues(operation, outcome).Inc()
	m.RemoteCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordKafkaPublish records a Kafka publish
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.KafkaEventsPublished.WithLabelValues(topic, eventType, status).Inc()
	m.KafkaPublishDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordSubmission records the terminal outcome of a submission
func (m *Metrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// SetSelection publishes the current selection size and weight
func (m *Metrics) SetSelection(pallets int, grossWeightKg float64) {
	if m == nil {
		return
	}
	m.SelectionSize.Set(float64(pallets))
	m.SelectionWeightKg.Set(grossWeightKg)
}

// RecordWeightRejection records a refused selection insertion
func (m *Metrics) RecordWeightRejection() {
	if m == nil {
		return
	}
	m.WeightRejectionsTotal.Inc()
}

// RecordPalletsAssigned records pallets confirmed as assigned
func (m *Metrics) RecordPalletsAssigned(count int) {
	if m == nil {
		return
	}
	m.PalletsAssignedTotal.Add(float64(count))
}

// RecordReleaseCreated records a created release
func (m *Metrics) RecordReleaseCreated() {
	if m == nil {
		return
	}
	m.ReleasesCreatedTotal.Inc()
}

// SetCircuitBreakerState sets the circuit breaker state gauge
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker opening
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	if m == nil {
		return
	}
	m.CircuitBreakerTrips.WithLabelValues(name).Inc()
}
