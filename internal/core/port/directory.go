package port

import (
	"context"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
)

// DirectoryFetcher performs one complete paginated traversal of the directory
// API. Implementations return either the full current set of applications or
// an error; partial results are never surfaced.
type DirectoryFetcher interface {
	FetchAll(ctx context.Context, token domain.AccessToken) ([]domain.Application, error)
}

// ApplicationReader exposes point lookups and full listing over the cached
// application snapshot. Reads never trigger a refresh.
type ApplicationReader interface {
	GetAll() map[string]domain.Application
	GetByID(id string) (domain.Application, error)
}
