package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
	"github.com/EveryMundo/azure-app-exporter/internal/core/port"
)

// ErrTokenUnavailable indicates no valid access token could be produced:
// the refresh failed and no previously issued token is still usable.
var ErrTokenUnavailable = errors.New("token: no valid access token available")

// retryDelay is how long the proactive refresh loop waits after a failed
// token request before trying again.
const retryDelay = 30 * time.Second

// TokenService holds the current access token and refreshes it before expiry.
// The token is shared by every fetch operation; readers load it atomically
// and refreshes are serialized so no caller observes a half-updated value.
type TokenService struct {
	issuer port.TokenIssuer
	logger *zap.Logger
	now    func() time.Time

	current   atomic.Pointer[domain.AccessToken]
	refreshMu sync.Mutex
}

// NewTokenService constructs the token service.
func NewTokenService(issuer port.TokenIssuer, log *zap.Logger) *TokenService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenService{
		issuer: issuer,
		logger: log,
		now:    time.Now,
	}
}

// WithNow overrides the clock, primarily for deterministic testing.
func (s *TokenService) WithNow(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// Token returns an access token guaranteed not to be expired at the instant
// of return. When the held token is past its refresh threshold (or none
// exists yet) a synchronous refresh happens first. A failed refresh is only
// surfaced when the held token is itself unusable; callers that could still
// be served by the previous token are unaffected.
func (s *TokenService) Token(ctx context.Context) (domain.AccessToken, error) {
	now := s.now()
	if cur := s.current.Load(); cur != nil && !cur.NeedsRefresh(now) {
		return *cur, nil
	}

	token, err := s.Refresh(ctx)
	if err != nil {
		if cur := s.current.Load(); cur != nil && !cur.IsExpired(s.now()) {
			s.logger.Warn("token refresh failed, serving previously issued token", zap.Error(err))
			return *cur, nil
		}
		return domain.AccessToken{}, fmt.Errorf("%w: %w", ErrTokenUnavailable, err)
	}
	return token, nil
}

// Refresh requests a new token and atomically replaces the held one. On
// failure the previous token stays in place untouched. Concurrent calls are
// serialized; a waiter finding a fresh token after acquiring the lock reuses
// it instead of issuing another request.
func (s *TokenService) Refresh(ctx context.Context) (domain.AccessToken, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	now := s.now()
	if cur := s.current.Load(); cur != nil && !cur.NeedsRefresh(now) {
		return *cur, nil
	}

	token, err := s.issuer.RequestToken(ctx)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("request token: %w", err)
	}

	s.current.Store(&token)
	return token, nil
}

// RefreshStep runs one cycle of the proactive refresh loop and returns the
// delay before the next cycle: until the new token's refresh threshold on
// success, a short retry delay on failure.
func (s *TokenService) RefreshStep(ctx context.Context) (time.Duration, error) {
	token, err := s.Refresh(ctx)
	if err != nil {
		return retryDelay, err
	}

	delay := token.RefreshAt.Sub(s.now())
	if delay <= 0 {
		delay = retryDelay
	}
	return delay, nil
}
