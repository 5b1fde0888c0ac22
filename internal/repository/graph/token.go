package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
)

// tokenResponse is the payload returned by the identity endpoint.
// https://learn.microsoft.com/en-us/graph/auth-v2-service#4-request-an-access-token
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RequestToken performs one client-credentials token request. The returned
// token carries both its hard expiry and the proactive refresh threshold.
func (c *Client) RequestToken(ctx context.Context) (domain.AccessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "https://graph.microsoft.com/.default")
	form.Set("client_id", c.credentials.ClientID)
	form.Set("client_secret", c.credentials.ClientSecret)

	c.logger.Debug("requesting access token with client id and secret", zap.String("url", c.tokenEndpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	issuedAt := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.AccessToken{}, &StatusError{StatusCode: resp.StatusCode, URL: c.tokenEndpoint}
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.AccessToken{}, fmt.Errorf("decode token response: %w", err)
	}

	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return domain.AccessToken{}, fmt.Errorf("token response missing access_token or expires_in")
	}

	return domain.NewAccessToken(payload.AccessToken, issuedAt, time.Duration(payload.ExpiresIn)*time.Second), nil
}
