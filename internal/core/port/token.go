package port

import (
	"context"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
)

// TokenIssuer requests a fresh access token from the identity endpoint.
type TokenIssuer interface {
	RequestToken(ctx context.Context) (domain.AccessToken, error)
}

// TokenSource yields a token that is valid at the moment of return,
// refreshing transparently when the held token is stale.
type TokenSource interface {
	Token(ctx context.Context) (domain.AccessToken, error)
}
