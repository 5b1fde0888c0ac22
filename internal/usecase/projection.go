package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/port"
)

// ExpirySink receives the projected gauge samples. Setting a sample resets
// the series' staleness clock in the pruning policy.
type ExpirySink interface {
	Set(labels prometheus.Labels, value float64)
}

// MetricsProjector walks the cached applications on each tick and publishes
// one remaining-seconds sample per password credential. Projection operates
// purely on in-memory data and cannot fail; while the cache is still
// uninitialized a tick simply publishes nothing.
type MetricsProjector struct {
	apps   port.ApplicationReader
	sink   ExpirySink
	logger *zap.Logger
	now    func() time.Time
}

// NewMetricsProjector constructs the projector.
func NewMetricsProjector(apps port.ApplicationReader, sink ExpirySink, log *zap.Logger) *MetricsProjector {
	if log == nil {
		log = zap.NewNop()
	}
	return &MetricsProjector{
		apps:   apps,
		sink:   sink,
		logger: log,
		now:    time.Now,
	}
}

// WithNow overrides the clock, primarily for deterministic testing.
func (p *MetricsProjector) WithNow(now func() time.Time) *MetricsProjector {
	if now != nil {
		p.now = now
	}
	return p
}

// Project publishes one sample per (application, credential) pair and returns
// the number of series touched. Negative values are published as-is; an
// already expired credential signals overdue rotation, not an error.
func (p *MetricsProjector) Project() int {
	now := p.now()
	published := 0

	for _, app := range p.apps.GetAll() {
		for _, credential := range app.PasswordCredentials {
			endDateTime := ""
			if credential.EndDateTime != nil {
				endDateTime = credential.EndDateTime.UTC().Format(time.RFC3339)
			}

			p.sink.Set(prometheus.Labels{
				"id":                      app.ID,
				"app_id":                  app.AppID,
				"display_name":            stringOrEmpty(app.DisplayName),
				"key_id":                  credential.KeyID,
				"credential_display_name": stringOrEmpty(credential.DisplayName),
				"end_date_time":           endDateTime,
			}, credential.RemainingSeconds(now))
			published++
		}
	}

	return published
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
