package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App          AppSettings          `mapstructure:"app"`
	Credentials  CredentialsSettings  `mapstructure:"credentials"`
	Applications ApplicationsSettings `mapstructure:"applications"`
	Metrics      MetricsSettings      `mapstructure:"metrics"`
	OpenAPI      OpenAPISettings      `mapstructure:"openapi"`
	HTTPClient   HTTPClientSettings   `mapstructure:"http_client"`
}

type AppSettings struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// CredentialsSettings holds the client-credentials identity used against the
// token endpoint. All three values are required when polling is enabled.
type CredentialsSettings struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// ApplicationsSettings configures the directory traversal and cache cadence.
type ApplicationsSettings struct {
	Enabled              bool          `mapstructure:"enabled"`
	URL                  string        `mapstructure:"url"`
	ResultsPerPage       int           `mapstructure:"results_per_page"`
	CacheRefreshInterval time.Duration `mapstructure:"cache_refresh_interval"`
}

// MetricsSettings configures how often cached credentials are projected into
// gauge samples and how long an untouched series survives before pruning.
// A zero prune interval disables pruning entirely.
type MetricsSettings struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	PruneInterval   time.Duration `mapstructure:"prune_interval"`
}

type OpenAPISettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// HTTPClientSettings configures the shared outbound HTTP client.
type HTTPClientSettings struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("EXPORTER")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.cert_file",
		"app.key_file",
		"credentials.tenant_id",
		"credentials.client_id",
		"credentials.client_secret",
		"applications.enabled",
		"applications.url",
		"applications.results_per_page",
		"applications.cache_refresh_interval",
		"metrics.refresh_interval",
		"metrics.prune_interval",
		"openapi.enabled",
		"http_client.timeout",
		"http_client.insecure_skip_verify",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations that would only fail later at runtime.
func (c *AppConfig) Validate() error {
	if c.Applications.ResultsPerPage < 1 || c.Applications.ResultsPerPage > 999 {
		return fmt.Errorf("applications.results_per_page must be in range 1..999, got %d", c.Applications.ResultsPerPage)
	}

	if c.Applications.Enabled {
		for key, value := range map[string]string{
			"credentials.tenant_id":     c.Credentials.TenantID,
			"credentials.client_id":     c.Credentials.ClientID,
			"credentials.client_secret": c.Credentials.ClientSecret,
		} {
			// "..." is the placeholder shipped in the sample settings file.
			if value == "" || value == "..." {
				return fmt.Errorf("%s is required when applications.enabled is true", key)
			}
		}
	}

	if (c.App.CertFile == "") != (c.App.KeyFile == "") {
		return fmt.Errorf("app.cert_file and app.key_file must be set together")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "azure-app-exporter")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 9081)
	v.SetDefault("app.cert_file", "")
	v.SetDefault("app.key_file", "")

	v.SetDefault("credentials.tenant_id", "")
	v.SetDefault("credentials.client_id", "")
	v.SetDefault("credentials.client_secret", "")

	v.SetDefault("applications.enabled", true)
	v.SetDefault("applications.url", "https://graph.microsoft.com/v1.0/applications")
	v.SetDefault("applications.results_per_page", 999)
	v.SetDefault("applications.cache_refresh_interval", "15m")

	v.SetDefault("metrics.refresh_interval", "1m")
	v.SetDefault("metrics.prune_interval", "30m")

	v.SetDefault("openapi.enabled", true)

	v.SetDefault("http_client.timeout", "2m")
	v.SetDefault("http_client.insecure_skip_verify", false)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "EXPORTER_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
