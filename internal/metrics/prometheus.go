package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"go.pavemaster.dev/integrations/domain"
)

const namespace = "pavemaster_integration"

// Metrics holds the Prometheus collectors for the integration core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SyncsTotal       *prometheus.CounterVec
	RecordsSynced    *prometheus.CounterVec
	SyncDuration     *prometheus.HistogramVec
	TokenExchanges   *prometheus.CounterVec
	RateLimitRetries *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// Collectors already registered by an earlier call are reused. Like
// MustRegister, it panics when reg holds a conflicting collector.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SyncsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syncs_total",
			Help:      "Total number of finished sync attempts.",
		}, []string{"platform", "type", "state"}),
		RecordsSynced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_synced_total",
			Help:      "Total number of records reported by completed syncs.",
		}, []string{"platform"}),
		SyncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of sync attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"platform", "type"}),
		TokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_exchanges_total",
			Help:      "Total number of OAuth2 token endpoint calls.",
		}, []string{"platform", "grant_type", "outcome"}),
		RateLimitRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_retries_total",
			Help:      "Total number of retries after an HTTP 429.",
		}, []string{"platform"}),
	}

	if reg == nil {
		return m
	}

	m.SyncsTotal = register(reg, m.SyncsTotal)
	m.RecordsSynced = register(reg, m.RecordsSynced)
	m.SyncDuration = register(reg, m.SyncDuration)
	m.TokenExchanges = register(reg, m.TokenExchanges)
	m.RateLimitRetries = register(reg, m.RateLimitRetries)

	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

// ObserveSync records a finished sync attempt.
func (m *Metrics) ObserveSync(status *domain.SyncStatus) {
	if m == nil || status == nil {
		return
	}
	platform := status.Platform.String()
	m.SyncsTotal.WithLabelValues(platform, status.Type.String(), status.State.String()).Inc()
	if status.State == domain.SyncStateCompleted {
		m.RecordsSynced.WithLabelValues(platform).Add(float64(status.RecordsSynced))
	}
	if status.EndTime != nil {
		m.SyncDuration.WithLabelValues(platform, status.Type.String()).Observe(status.Duration().Seconds())
	}
}

// TokenExchange records a call to a platform token endpoint.
func (m *Metrics) TokenExchange(platform domain.Platform, grantType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.TokenExchanges.WithLabelValues(platform.String(), grantType, outcome).Inc()
}

// RateLimitRetry records one retry after an HTTP 429.
func (m *Metrics) RateLimitRetry(platform domain.Platform) {
	if m == nil {
		return
	}
	m.RateLimitRetries.WithLabelValues(platform.String()).Inc()
}
