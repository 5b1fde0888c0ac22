package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testGauge(now func() time.Time) *ExpiringGaugeVec {
	return NewExpiringGaugeVec(prometheus.GaugeOpts{
		Name: "test_remaining_seconds",
		Help: "test gauge",
	}, []string{"id", "key_id"}).WithNow(now)
}

func TestPruneStaleRemovesUntouchedSeries(t *testing.T) {
	clock := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	gauge := testGauge(func() time.Time { return clock })

	stale := prometheus.Labels{"id": "a1", "key_id": "k1"}
	fresh := prometheus.Labels{"id": "a2", "key_id": "k2"}

	gauge.Set(stale, 100)

	clock = clock.Add(45 * time.Minute)
	gauge.Set(fresh, 200)

	removed := gauge.PruneStale(30 * time.Minute)
	if removed != 1 {
		t.Fatalf("expected 1 pruned series, got %d", removed)
	}

	if count := testutil.CollectAndCount(gauge.Vec()); count != 1 {
		t.Fatalf("expected 1 remaining series after prune, got %d", count)
	}

	if got := testutil.ToFloat64(gauge.Vec().With(fresh)); got != 200 {
		t.Fatalf("expected fresh series to survive with value 200, got %f", got)
	}
}

func TestTouchingASeriesResetsItsStalenessClock(t *testing.T) {
	clock := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	gauge := testGauge(func() time.Time { return clock })

	labels := prometheus.Labels{"id": "a1", "key_id": "k1"}

	gauge.Set(labels, 100)

	clock = clock.Add(25 * time.Minute)
	gauge.Set(labels, 90)

	clock = clock.Add(25 * time.Minute)
	if removed := gauge.PruneStale(30 * time.Minute); removed != 0 {
		t.Fatalf("republished series must not be pruned, removed %d", removed)
	}
}

func TestPruneDisabledKeepsEverySeries(t *testing.T) {
	clock := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	gauge := testGauge(func() time.Time { return clock })

	gauge.Set(prometheus.Labels{"id": "a1", "key_id": "k1"}, 100)

	clock = clock.Add(24 * time.Hour)
	if removed := gauge.PruneStale(0); removed != 0 {
		t.Fatalf("pruning disabled must keep every series, removed %d", removed)
	}

	if count := testutil.CollectAndCount(gauge.Vec()); count != 1 {
		t.Fatalf("expected the series to remain indefinitely, got %d", count)
	}
}

func TestMetricsRegistryRegistersCollectors(t *testing.T) {
	m, err := New("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.PasswordRemaining.Set(prometheus.Labels{
		"id":                      "a1",
		"app_id":                  "app-1",
		"display_name":            "Contoso",
		"key_id":                  "k1",
		"credential_display_name": "",
		"end_date_time":           "2024-01-06T14:43:01Z",
	}, 175381)
	m.ObserveTokenRefresh("success", 120*time.Millisecond)
	m.ObserveApplicationsRefresh("fail", 5*time.Second)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}

	expected := map[string]bool{
		"azure_app_exporter_application_password_remaining_seconds": false,
		"azure_app_exporter_token_update_duration_seconds":          false,
		"azure_app_exporter_applications_update_duration_seconds":   false,
		"azure_app_exporter_app_info":                               false,
	}
	for _, family := range families {
		if _, ok := expected[family.GetName()]; ok {
			expected[family.GetName()] = true
		}
	}
	for name, seen := range expected {
		if !seen {
			t.Fatalf("expected metric family %s to be registered", name)
		}
	}
}
