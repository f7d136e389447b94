// Package metrics exposes the wizard's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "charcraft"

// Completion call kinds
const (
	KindChoice      = "choice"
	KindReaction    = "reaction"
	KindCelebration = "celebration"
)

// Completion call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeDenied  = "quota_denied"
)

// Metrics holds every collector the process reports
type Metrics struct {
	registry *prometheus.Registry

	InteractionsTotal   *prometheus.CounterVec   // by interaction type and route
	InteractionErrors   *prometheus.CounterVec   // by interaction type and route
	InteractionDuration *prometheus.HistogramVec // by interaction type

	CompletionCalls    *prometheus.CounterVec // by kind and outcome
	QuotaRejections    prometheus.Counter
	FallbackMessages   *prometheus.CounterVec // by kind
	CharactersFinished prometheus.Counter
}

// New creates and registers the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		InteractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discord_interactions_total",
				Help:      "Discord interactions handled",
			},
			[]string{"interaction_type", "route"},
		),
		InteractionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discord_interaction_errors_total",
				Help:      "Discord interactions whose handler returned an error",
			},
			[]string{"interaction_type", "route"},
		),
		InteractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "discord_interaction_duration_seconds",
				Help:      "Time spent handling a Discord interaction",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"interaction_type"},
		),
		CompletionCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_calls_total",
				Help:      "Completion service calls by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		QuotaRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quota_rejections_total",
				Help:      "Requests refused because the daily limit was reached",
			},
		),
		FallbackMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_messages_total",
				Help:      "Static messages served instead of generated ones",
			},
			[]string{"kind"},
		),
		CharactersFinished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "characters_finished_total",
				Help:      "Characters completed",
			},
		),
	}

	m.registry.MustRegister(
		m.InteractionsTotal,
		m.InteractionErrors,
		m.InteractionDuration,
		m.CompletionCalls,
		m.QuotaRejections,
		m.FallbackMessages,
		m.CharactersFinished,
	)

	return m
}

// Registry returns the registry backing these collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveInteraction records one handled Discord interaction
func (m *Metrics) ObserveInteraction(interactionType, route string, elapsed time.Duration, failed bool) {
	m.InteractionsTotal.WithLabelValues(interactionType, route).Inc()
	m.InteractionDuration.WithLabelValues(interactionType).Observe(elapsed.Seconds())
	if failed {
		m.InteractionErrors.WithLabelValues(interactionType, route).Inc()
	}
}

// CompletionCall records one completion attempt
func (m *Metrics) CompletionCall(kind, outcome string) {
	m.CompletionCalls.WithLabelValues(kind, outcome).Inc()
}

// QuotaRejected records a request refused by the daily limit
func (m *Metrics) QuotaRejected() {
	m.QuotaRejections.Inc()
}

// Fallback records a static message served in place of a generated one
func (m *Metrics) Fallback(kind string) {
	m.FallbackMessages.WithLabelValues(kind).Inc()
}

// CharacterFinished records a completed character
func (m *Metrics) CharacterFinished() {
	m.CharactersFinished.Inc()
}

// Nop discards everything. Handy for tests and tools.
type Nop struct{}

func (Nop) ObserveInteraction(string, string, time.Duration, bool) {}
func (Nop) CompletionCall(string, string)                           {}
func (Nop) QuotaRejected()                                          {}
func (Nop) Fallback(string)                                         {}
func (Nop) CharacterFinished()                                      {}
