package metrics

import (
	"time"

	"fxalert-service/internal/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckMetrics records one observation per check invocation.
type CheckMetrics struct {
	ChecksTotal        *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	CheckDuration      *prometheus.HistogramVec
	LastValue          prometheus.Gauge
}

var _ application.Recorder = (*CheckMetrics)(nil)

// NewCheckMetrics registers the collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewCheckMetrics(reg prometheus.Registerer) *CheckMetrics {
	f := promauto.With(reg)
	return &CheckMetrics{
		ChecksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_checks_total",
				Help: "Quote check invocations by outcome",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_notifications_total",
				Help: "Notifications sent by kind",
			},
			[]string{"kind"},
		),
		CheckDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quote_check_duration_seconds",
				Help:    "Wall time of a quote check invocation",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"outcome"},
		),
		LastValue: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "quote_last_value",
				Help: "Most recently fetched exchange rate",
			},
		),
	}
}

func (m *CheckMetrics) ObserveCheck(outcome string, res application.CheckResult, elapsed time.Duration) {
	m.ChecksTotal.WithLabelValues(outcome).Inc()
	m.CheckDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if res.Current.Value > 0 {
		m.LastValue.Set(res.Current.Value)
	}
	if outcome == application.KindOK && res.Action.Notify {
		m.NotificationsTotal.WithLabelValues(res.Action.Kind.String()).Inc()
	}
}
