package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters exposed on /metrics.
type Metrics struct {
	LoginSuccess  prometheus.Counter
	LoginFailure  prometheus.Counter
	TokenRejected prometheus.Counter

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		LoginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sejour_login_success_total",
			Help: "Successful logins.",
		}),
		LoginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sejour_login_failure_total",
			Help: "Rejected login attempts (bad credentials, unverified accounts, validation).",
		}),
		TokenRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sejour_token_rejected_total",
			Help: "Guarded requests rejected for an invalid or expired token.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.LoginSuccess, m.LoginFailure, m.TokenRejected)
	return m
}
