package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
	"github.com/EveryMundo/azure-app-exporter/internal/core/port"
	"github.com/EveryMundo/azure-app-exporter/internal/repository"
)

// applicationSnapshot is one complete, internally consistent fetch result.
// Snapshots are immutable; a refresh swaps the pointer, never merges.
type applicationSnapshot struct {
	applications map[string]domain.Application
	refreshedAt  time.Time
}

// ApplicationCacheService keeps the in-memory cache of directory applications.
// Reads are lock-free pointer loads and never trigger a refresh; refreshes
// are time-driven and serialized against each other. A failed refresh leaves
// the previous snapshot serving, with no hard staleness ceiling — staleness
// is only enforced downstream by metric pruning.
type ApplicationCacheService struct {
	tokens  port.TokenSource
	fetcher port.DirectoryFetcher
	logger  *zap.Logger
	now     func() time.Time

	snapshot  atomic.Pointer[applicationSnapshot]
	refreshMu sync.Mutex
}

// NewApplicationCacheService constructs the cache service.
func NewApplicationCacheService(tokens port.TokenSource, fetcher port.DirectoryFetcher, log *zap.Logger) *ApplicationCacheService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationCacheService{
		tokens:  tokens,
		fetcher: fetcher,
		logger:  log,
		now:     time.Now,
	}
}

// WithNow overrides the clock, primarily for deterministic testing.
func (s *ApplicationCacheService) WithNow(now func() time.Time) *ApplicationCacheService {
	if now != nil {
		s.now = now
	}
	return s
}

// Refresh obtains a valid token, traverses the full directory listing and
// atomically replaces the cached snapshot. On any failure the previous
// snapshot stays untouched.
func (s *ApplicationCacheService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("refresh applications: %w", err)
	}

	applications, err := s.fetcher.FetchAll(ctx, token)
	if err != nil {
		return fmt.Errorf("refresh applications: %w", err)
	}

	byID := make(map[string]domain.Application, len(applications))
	for _, app := range applications {
		byID[app.ID] = app
	}

	s.snapshot.Store(&applicationSnapshot{
		applications: byID,
		refreshedAt:  s.now(),
	})

	return nil
}

// GetAll returns the current snapshot's applications keyed by id. The map is
// shared with the snapshot and must be treated as read-only. An uninitialized
// cache yields an empty map, not an error.
func (s *ApplicationCacheService) GetAll() map[string]domain.Application {
	snap := s.snapshot.Load()
	if snap == nil {
		return map[string]domain.Application{}
	}
	return snap.applications
}

// GetByID looks up one application, returning repository.ErrNotFound when it
// is absent from the current snapshot.
func (s *ApplicationCacheService) GetByID(id string) (domain.Application, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return domain.Application{}, repository.ErrNotFound
	}

	app, ok := snap.applications[id]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	return app, nil
}

// Len reports how many applications the current snapshot holds.
func (s *ApplicationCacheService) Len() int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.applications)
}

// LastRefresh returns when the snapshot was last replaced; ok is false while
// the cache is still uninitialized.
func (s *ApplicationCacheService) LastRefresh() (time.Time, bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.refreshedAt, true
}
