// Package telemetry owns the Prometheus registry and the collectors the
// exporter publishes: per-credential expiry gauges with staleness pruning,
// refresh cycle histograms and process level metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "azure_app_exporter"

// durationBuckets covers refresh cycles from a few milliseconds up to the
// ten-second range where something is clearly wrong upstream.
var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// PasswordLabels is the full label set identifying one credential series.
var PasswordLabels = []string{"id", "app_id", "display_name", "key_id", "credential_display_name", "end_date_time"}

// Metrics bundles every collector the exporter registers.
type Metrics struct {
	registry *prometheus.Registry

	// PasswordRemaining carries one gauge sample per cached password
	// credential, keyed by the full label set and pruned on staleness.
	PasswordRemaining *ExpiringGaugeVec

	// TokenRefreshDuration and ApplicationsRefreshDuration observe each
	// background refresh cycle, partitioned by outcome.
	TokenRefreshDuration        *prometheus.HistogramVec
	ApplicationsRefreshDuration *prometheus.HistogramVec
}

// New builds the exporter registry with all collectors registered, including
// the standard Go runtime and process collectors.
func New(version string) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		PasswordRemaining: NewExpiringGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "application_password_remaining_seconds",
			Help:      "Seconds remaining until the password credential expires.",
		}, PasswordLabels),
		TokenRefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "token_update_duration_seconds",
			Help:      "How many seconds it takes to update the API access token.",
			Buckets:   durationBuckets,
		}, []string{"status"}),
		ApplicationsRefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "applications_update_duration_seconds",
			Help:      "How many seconds it takes to update the in-memory cache of applications.",
			Buckets:   durationBuckets,
		}, []string{"status"}),
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Information about the exporter build.",
	}, []string{"version"})
	buildInfo.WithLabelValues(version).Set(1)

	for _, c := range []prometheus.Collector{
		m.PasswordRemaining.Vec(),
		m.TokenRefreshDuration,
		m.ApplicationsRefreshDuration,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Registry exposes the underlying registerer for additional collectors such
// as the HTTP middleware instrumentation.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler renders the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTokenRefresh records one token refresh cycle.
func (m *Metrics) ObserveTokenRefresh(status string, elapsed time.Duration) {
	m.TokenRefreshDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObserveApplicationsRefresh records one cache refresh cycle.
func (m *Metrics) ObserveApplicationsRefresh(status string, elapsed time.Duration) {
	m.ApplicationsRefreshDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}
