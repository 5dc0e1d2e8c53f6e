// Package metrics exposes Prometheus instrumentation for order sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orderwidget"

// Metrics holds the order collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	recomputes prometheus.Counter
	mutations  *prometheus.CounterVec
	dispatches *prometheus.CounterVec
	grandTotal prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "total_recomputes_total",
			Help:      "Number of order total recomputations.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_mutations_total",
			Help:      "Selection mutations by kind.",
		}, []string{"kind"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Order dispatches by primary channel.",
		}, []string{"channel"}),
		grandTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_grand_total_shillings",
			Help:      "Grand total of the most recently recomputed order.",
		}),
	}
	reg.MustRegister(m.recomputes, m.mutations, m.dispatches, m.grandTotal)
	return m
}

// Recomputed records one recomputation that produced grandTotal.
func (m *Metrics) Recomputed(grandTotal int) {
	if m == nil {
		return
	}
	m.recomputes.Inc()
	m.grandTotal.Set(float64(grandTotal))
}

// Mutation records one selection mutation such as "toggle_added".
func (m *Metrics) Mutation(kind string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind).Inc()
}

// Dispatched records one dispatch through channel ("app" or "web").
func (m *Metrics) Dispatched(channel string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(channel).Inc()
}
