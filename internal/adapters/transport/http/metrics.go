package http

import (
	authErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type authMetrics struct {
	requests *prometheus.CounterVec
}

func newAuthMetrics(reg prometheus.Registerer) *authMetrics {
	m := &authMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront_auth",
			Name:      "requests_total",
			Help:      "Auth operations by outcome.",
		}, []string{"operation", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests)
	}
	return m
}

func (m *authMetrics) observe(op string, err error) {
	m.requests.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case authErrors.IsInvalidArgument(err):
		return "invalid_argument"
	case authErrors.IsInvalidCredentials(err):
		return "invalid_credentials"
	case authErrors.IsInvalidToken(err):
		return "invalid_token"
	case authErrors.IsAlreadyExists(err):
		return "conflict"
	case authErrors.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
