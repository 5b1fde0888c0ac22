package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
)

// selectFields restricts the directory payload to the attributes the exporter
// actually consumes.
// https://learn.microsoft.com/en-us/graph/query-parameters
const selectFields = "id,appId,displayName,createdDateTime,passwordCredentials"

// maxPages bounds a single traversal so a buggy upstream cannot trap the
// refresh cycle in an endless chain of next links.
const maxPages = 1000

// applicationsPage is one page of the directory listing.
// https://learn.microsoft.com/en-us/graph/api/application-list?view=graph-rest-1.0
type applicationsPage struct {
	NextLink string               `json:"@odata.nextLink"`
	Value    []domain.Application `json:"value"`
}

// FetchAll traverses the paginated directory listing and returns the complete
// current set of applications. Any page failing aborts the whole traversal;
// pages fetched so far are discarded so callers only ever observe a full,
// internally consistent snapshot. Zero applications is a valid empty result.
func (c *Client) FetchAll(ctx context.Context, token domain.AccessToken) ([]domain.Application, error) {
	url := fmt.Sprintf("%s?$top=%d&$select=%s", c.directoryURL, c.pageSize, selectFields)

	var applications []domain.Application
	visited := make(map[string]struct{})

	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("fetch applications: traversal exceeded %d pages", maxPages)
		}

		if _, ok := visited[url]; ok {
			// A repeated next link would loop forever; treat it as the end of
			// the listing rather than trusting the upstream.
			c.logger.Warn("directory returned an already visited next link, stopping traversal", zap.String("url", url))
			break
		}
		visited[url] = struct{}{}

		result, err := c.fetchPage(ctx, url, token)
		if err != nil {
			return nil, err
		}

		applications = append(applications, result.Value...)

		if result.NextLink == "" {
			break
		}
		url = result.NextLink
	}

	return applications, nil
}

func (c *Client) fetchPage(ctx context.Context, url string, token domain.AccessToken) (*applicationsPage, error) {
	c.logger.Debug("getting applications page with api token", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build applications request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch applications page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	var page applicationsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode applications page: %w", err)
	}

	return &page, nil
}
