package telemetry

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExpiringGaugeVec wraps a GaugeVec with a per-series staleness clock.
// Setting a series touches its clock; PruneStale removes series that have not
// been touched within the given window, so credentials deleted upstream stop
// being reported after at most one prune interval.
type ExpiringGaugeVec struct {
	vec        *prometheus.GaugeVec
	labelNames []string

	mu      sync.Mutex
	touched map[string]series
	now     func() time.Time
}

type series struct {
	labels    prometheus.Labels
	touchedAt time.Time
}

// NewExpiringGaugeVec builds an expiring gauge with the given options and
// label names. The caller registers Vec() with its registry.
func NewExpiringGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *ExpiringGaugeVec {
	return &ExpiringGaugeVec{
		vec:        prometheus.NewGaugeVec(opts, labelNames),
		labelNames: labelNames,
		touched:    make(map[string]series),
		now:        time.Now,
	}
}

// WithNow overrides the staleness clock for deterministic testing.
func (g *ExpiringGaugeVec) WithNow(now func() time.Time) *ExpiringGaugeVec {
	if now != nil {
		g.now = now
	}
	return g
}

// Vec returns the underlying collector for registration.
func (g *ExpiringGaugeVec) Vec() *prometheus.GaugeVec {
	return g.vec
}

// Set publishes the sample and resets the series' staleness clock.
func (g *ExpiringGaugeVec) Set(labels prometheus.Labels, value float64) {
	g.vec.With(labels).Set(value)

	g.mu.Lock()
	g.touched[g.key(labels)] = series{labels: labels, touchedAt: g.now()}
	g.mu.Unlock()
}

// PruneStale deletes every series that has not been touched within maxAge and
// returns how many were removed. A non-positive maxAge disables pruning.
func (g *ExpiringGaugeVec) PruneStale(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	cutoff := g.now().Add(-maxAge)

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for key, s := range g.touched {
		if s.touchedAt.Before(cutoff) {
			g.vec.Delete(s.labels)
			delete(g.touched, key)
			removed++
		}
	}
	return removed
}

// key flattens the label values in declaration order. 0xff never occurs in
// valid UTF-8, so the separator cannot collide with label values.
func (g *ExpiringGaugeVec) key(labels prometheus.Labels) string {
	var b strings.Builder
	for _, name := range g.labelNames {
		b.WriteString(labels[name])
		b.WriteByte(0xff)
	}
	return b.String()
}
