package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Dispatch metrics
	DispatchOutcomesTotal *prometheus.CounterVec
	DuplicateDropsTotal   prometheus.Counter
	HandoversTotal        prometheus.Counter
	ResumesTotal          prometheus.Counter

	// Catalog metrics
	CatalogRefreshTotal *prometheus.CounterVec
	CatalogSize         prometheus.Gauge

	// Collaborator metrics
	CollaboratorErrorsTotal *prometheus.CounterVec
	FallbackRequestsTotal   *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "messenger_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // event_type: message, postback; status: success, error, duplicate, suppressed
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "messenger_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30}, // fallback calls dominate the tail
			},
			[]string{"event_type"},
		),

		DispatchOutcomesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "messenger_dispatch_outcomes_total",
				Help: "Total number of dispatched messages by outcome",
			},
			[]string{"outcome"}, // outcome: carousel, fallback, handover, resumed, suppressed, apology
		),

		DuplicateDropsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "messenger_duplicate_drops_total",
				Help: "Total number of redelivered messages dropped by the dedup window",
			},
		),

		HandoversTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "messenger_handovers_total",
				Help: "Total number of conversations handed over to a human admin",
			},
		),

		ResumesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "messenger_resumes_total",
				Help: "Total number of conversations resumed by the bot after handover",
			},
		),

		CatalogRefreshTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "messenger_catalog_refresh_total",
				Help: "Total number of catalog refresh attempts by status",
			},
			[]string{"status"}, // status: success, error
		),

		CatalogSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "messenger_catalog_products",
				Help: "Number of products in the current catalog snapshot",
			},
		),

		CollaboratorErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "messenger_collaborator_errors_total",
				Help: "Total number of collaborator failures by collaborator",
			},
			[]string{"collaborator"}, // collaborator: profile, send, typing, fallback, mailer, catalog
		),

		FallbackRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "messenger_fallback_requests_total",
				Help: "Total number of generative fallback calls by provider and status",
			},
			[]string{"provider", "status"}, // provider: gemini, openai; status: success, error
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "messenger_rate_limiter_dropped_total",
				Help: "Total number of events dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: user
		),
	}

	return m
}

// RecordWebhook records a webhook event with status
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordOutcome records a dispatch outcome
func (m *Metrics) RecordOutcome(outcome string) {
	m.DispatchOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordDuplicateDrop records a redelivered message dropped by dedup
func (m *Metrics) RecordDuplicateDrop() {
	m.DuplicateDropsTotal.Inc()
}

// RecordHandover records a handover to a human admin
func (m *Metrics) RecordHandover() {
	m.HandoversTotal.Inc()
}

// RecordResume records a conversation resumed by the bot
func (m *Metrics) RecordResume() {
	m.ResumesTotal.Inc()
}

// RecordCatalogRefresh records a catalog refresh attempt
func (m *Metrics) RecordCatalogRefresh(status string, size int) {
	m.CatalogRefreshTotal.WithLabelValues(status).Inc()
	if status == "success" {
		m.CatalogSize.Set(float64(size))
	}
}

// RecordCollaboratorError records a collaborator failure
func (m *Metrics) RecordCollaboratorError(collaborator string) {
	m.CollaboratorErrorsTotal.WithLabelValues(collaborator).Inc()
}

// RecordFallback records a generative fallback call
func (m *Metrics) RecordFallback(provider, status string) {
	m.FallbackRequestsTotal.WithLabelValues(provider, status).Inc()
}

// RecordRateLimiterDrop records an event dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}
