package session

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
	outcomeEmpty    = "empty"
)

// Metrics counts session outcomes. A nil *Metrics records nothing, so one
// instance can be shared by every Manager in a process or left out entirely.
type Metrics struct {
	Logins       *prometheus.CounterVec
	Refreshes    *prometheus.CounterVec
	ProfileLoads *prometheus.CounterVec
	FetchRetries prometheus.Counter
}

// NewMetrics registers the session metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smw_admin_logins_total",
			Help: "Admin login attempts by outcome",
		}, []string{"outcome"}),
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smw_admin_token_refreshes_total",
			Help: "Access token refresh calls by outcome",
		}, []string{"outcome"}),
		ProfileLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smw_admin_profile_loads_total",
			Help: "Profile loads by outcome",
		}, []string{"outcome"}),
		FetchRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "smw_admin_fetch_retries_total",
			Help: "Authenticated requests re-issued after a token refresh",
		}),
	}
}

func (m *Metrics) observeLogin(result LoginResult) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if !result.Success {
		outcome = outcomeRejected
		var e *Error
		if errors.As(result.Err, &e) && (e.Kind == ErrTransientNetwork || e.Kind == ErrProtocol) {
			outcome = outcomeError
		}
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeRefresh(outcome string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeProfile(outcome string) {
	if m == nil {
		return
	}
	m.ProfileLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeFetchRetry() {
	if m == nil {
		return
	}
	m.FetchRetries.Inc()
}
