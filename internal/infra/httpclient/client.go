package httpclient

import (
	"crypto/tls"
	"net/http"

	"github.com/EveryMundo/azure-app-exporter/internal/infra/config"
)

// New builds the shared outbound HTTP client. Every request against the
// identity endpoint and the directory API goes through this client so all
// outbound calls carry the same bounded timeout.
func New(cfg config.HTTPClientSettings) *http.Client {
	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.InsecureSkipVerify {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- explicit opt-in for lab tenants
		client.Transport = transport
	}

	return client
}
