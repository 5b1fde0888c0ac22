// Package graph implements the outbound client for the Microsoft identity
// platform and the Graph directory API. It is purely request/response logic;
// caching and scheduling live in the usecase layer.
package graph

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/infra/config"
)

const defaultTokenEndpoint = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"

// Client talks to the identity endpoint and the directory API.
type Client struct {
	httpClient    *http.Client
	credentials   config.CredentialsSettings
	directoryURL  string
	pageSize      int
	tokenEndpoint string
	logger        *zap.Logger
}

// NewClient constructs a Graph client from the exporter configuration.
func NewClient(httpClient *http.Client, credentials config.CredentialsSettings, apps config.ApplicationsSettings, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		httpClient:    httpClient,
		credentials:   credentials,
		directoryURL:  apps.URL,
		pageSize:      apps.ResultsPerPage,
		tokenEndpoint: fmt.Sprintf(defaultTokenEndpoint, credentials.TenantID),
		logger:        log,
	}
}

// WithTokenEndpoint overrides the identity endpoint, primarily for testing
// against local HTTP servers.
func (c *Client) WithTokenEndpoint(url string) *Client {
	if url != "" {
		c.tokenEndpoint = url
	}
	return c
}

// StatusError reports a non-2xx response from an upstream endpoint.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph: unexpected status %d from %s", e.StatusCode, e.URL)
}
