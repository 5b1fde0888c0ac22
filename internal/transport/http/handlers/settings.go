package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EveryMundo/azure-app-exporter/internal/infra/config"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/logger"
)

// SettingsHandler exposes the effective configuration for debugging.
type SettingsHandler struct {
	cfg *config.AppConfig
}

// NewSettingsHandler builds the settings handler.
func NewSettingsHandler(cfg *config.AppConfig) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// RegisterRoutes binds settings endpoints.
func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.Show)
}

// Show godoc
// @Summary Show effective settings
// @Description Returns the configuration the exporter is running with. The client secret is masked.
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsResponse
// @Router /api/settings [get]
func (h *SettingsHandler) Show(c *gin.Context) {
	cfg := h.cfg

	c.JSON(http.StatusOK, SettingsResponse{
		App: AppSettingsView{
			Name: cfg.App.Name,
			Env:  cfg.App.Env,
			Host: cfg.App.Host,
			Port: cfg.App.Port,
		},
		Credentials: CredentialsSettingsView{
			TenantID:     cfg.Credentials.TenantID,
			ClientID:     cfg.Credentials.ClientID,
			ClientSecret: logger.MaskSecret(cfg.Credentials.ClientSecret),
		},
		Applications: ApplicationsSettingsView{
			Enabled:              cfg.Applications.Enabled,
			URL:                  cfg.Applications.URL,
			ResultsPerPage:       cfg.Applications.ResultsPerPage,
			CacheRefreshInterval: cfg.Applications.CacheRefreshInterval.String(),
		},
		Metrics: MetricsSettingsView{
			RefreshInterval: cfg.Metrics.RefreshInterval.String(),
			PruneInterval:   cfg.Metrics.PruneInterval.String(),
		},
	})
}
