package handlers

import (
	"time"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// SettingsResponse mirrors the effective configuration with secrets masked.
type SettingsResponse struct {
	App          AppSettingsView          `json:"app"`
	Credentials  CredentialsSettingsView  `json:"credentials"`
	Applications ApplicationsSettingsView `json:"applications"`
	Metrics      MetricsSettingsView      `json:"metrics"`
}

// AppSettingsView describes the serving configuration.
type AppSettingsView struct {
	Name string `json:"name"`
	Env  string `json:"env"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CredentialsSettingsView shows the identity configuration. The client secret
// is always masked before leaving the process.
type CredentialsSettingsView struct {
	TenantID     string `json:"tenant_id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ApplicationsSettingsView describes the directory polling configuration.
type ApplicationsSettingsView struct {
	Enabled              bool   `json:"enabled"`
	URL                  string `json:"url"`
	ResultsPerPage       int    `json:"results_per_page"`
	CacheRefreshInterval string `json:"cache_refresh_interval"`
}

// MetricsSettingsView describes the projection and pruning cadence.
type MetricsSettingsView struct {
	RefreshInterval string `json:"refresh_interval"`
	PruneInterval   string `json:"prune_interval"`
}
