package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/config"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/telemetry"
	"github.com/EveryMundo/azure-app-exporter/internal/repository"
	"github.com/EveryMundo/azure-app-exporter/internal/transport/http/middleware"
	httproutes "github.com/EveryMundo/azure-app-exporter/internal/transport/http/routes"
)

type stubReader struct {
	applications map[string]domain.Application
}

func (s *stubReader) GetAll() map[string]domain.Application {
	return s.applications
}

func (s *stubReader) GetByID(id string) (domain.Application, error) {
	app, ok := s.applications[id]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	return app, nil
}

func testEngine(t *testing.T, apps map[string]domain.Application) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := zap.NewDevelopment()
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	metrics, err := telemetry.New("test")
	if err != nil {
		t.Fatalf("failed to init metrics: %v", err)
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("failed to init http metrics: %v", err)
	}

	return httproutes.Register(httproutes.Dependencies{
		Config:         cfg,
		Logger:         logger,
		Applications:   &stubReader{applications: apps},
		MetricsHandler: metrics.Handler(),
		HTTPMetrics:    httpMetrics,
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := testEngine(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestApplicationsEndpointReturnsCache(t *testing.T) {
	name := "Contoso"
	r := testEngine(t, map[string]domain.Application{
		"a1": {ID: "a1", AppID: "app-1", DisplayName: &name},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/apps", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var payload map[string]domain.Application
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload["a1"].AppID != "app-1" {
		t.Fatalf("unexpected payload %s", w.Body.String())
	}
}

func TestApplicationByIDNotFound(t *testing.T) {
	r := testEngine(t, map[string]domain.Application{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/apps/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestMetricsEndpointRendersRegistry(t *testing.T) {
	r := testEngine(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "azure_app_exporter_app_info") {
		t.Fatal("expected rendered metrics to include the app_info family")
	}
}

func TestSettingsEndpointMasksClientSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger, _ := zap.NewDevelopment()
	cfg := &config.AppConfig{
		App: config.AppSettings{Env: "test"},
		Credentials: config.CredentialsSettings{
			TenantID:     "tenant-1",
			ClientID:     "client-1",
			ClientSecret: "super-secret-value",
		},
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("failed to init http metrics: %v", err)
	}

	r := httproutes.Register(httproutes.Dependencies{
		Config:      cfg,
		Logger:      logger,
		HTTPMetrics: httpMetrics,
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/settings", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "super-secret-value") {
		t.Fatal("client secret must never leave the process unmasked")
	}
	if !strings.Contains(w.Body.String(), "su***ue") {
		t.Fatalf("expected masked client secret in payload, got %s", w.Body.String())
	}
}
