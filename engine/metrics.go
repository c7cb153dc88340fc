package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "inlay"

// Metrics records engine activity. A nil *Metrics records nothing.
type Metrics struct {
	Requests         prometheus.Counter
	Superseded       prometheus.Counter
	FetchFailures    prometheus.Counter
	StaleResults     prometheus.Counter
	InactiveResults  prometheus.Counter
	Renders          prometheus.Counter
	Overlays         prometheus.Counter
	OverlayFailures  prometheus.Counter
	InflightRequests prometheus.Gauge
}

// NewMetrics creates the engine collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Requests: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Hint requests issued to the language server.",
		}),
		Superseded: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_superseded_total",
			Help:      "Hint requests cancelled because a newer one replaced them.",
		}),
		FetchFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_failures_total",
			Help:      "Hint requests that failed and resolved to no hints.",
		}),
		StaleResults: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stale_results_total",
			Help:      "Results discarded because their request was superseded.",
		}),
		InactiveResults: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "inactive_results_total",
			Help:      "Current results discarded because their document was not active.",
		}),
		Renders: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Render passes applied to the active document.",
		}),
		Overlays: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "overlays_drawn_total",
			Help:      "Virtual-text overlays drawn.",
		}),
		OverlayFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "overlay_failures_total",
			Help:      "Overlays the editor refused to draw.",
		}),
		InflightRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "inflight_requests",
			Help:      "Hint requests awaiting a response.",
		}),
	}
}

func (m *Metrics) requestStarted() {
	if m == nil {
		return
	}

	m.Requests.Inc()
	m.InflightRequests.Inc()
}

func (m *Metrics) requestDone() {
	if m == nil {
		return
	}

	m.InflightRequests.Dec()
}

func (m *Metrics) superseded() {
	if m != nil {
		m.Superseded.Inc()
	}
}

func (m *Metrics) fetchFailed() {
	if m != nil {
		m.FetchFailures.Inc()
	}
}

func (m *Metrics) staleResult() {
	if m != nil {
		m.StaleResults.Inc()
	}
}

func (m *Metrics) inactiveResult() {
	if m != nil {
		m.InactiveResults.Inc()
	}
}

func (m *Metrics) rendered(overlays, failures int) {
	if m == nil {
		return
	}

	m.Renders.Inc()
	m.Overlays.Add(float64(overlays))
	m.OverlayFailures.Add(float64(failures))
}
