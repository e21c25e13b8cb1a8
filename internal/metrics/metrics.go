package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	callsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portvakt_calls_total",
		Help: "Total number of incoming call events handled",
	})
	gateOpenedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portvakt_gate_opened_total",
		Help: "Total number of calls that resulted in the gate opening",
	})
	callsDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portvakt_calls_denied_total",
		Help: "Total number of calls from untrusted numbers",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(callsTotal, gateOpenedTotal, callsDeniedTotal)
}

// IncCall increments the handled calls counter.
func IncCall() { callsTotal.Inc() }

// IncGateOpened increments the opened-gate counter.
func IncGateOpened() { gateOpenedTotal.Inc() }

// IncDenied increments the denied calls counter.
func IncDenied() { callsDeniedTotal.Inc() }
