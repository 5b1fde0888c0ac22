package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EveryMundo/azure-app-exporter/internal/core/domain"
)

type stubIssuer struct {
	tokens   []domain.AccessToken
	err      error
	requests int
}

func (s *stubIssuer) RequestToken(_ context.Context) (domain.AccessToken, error) {
	s.requests++
	if s.err != nil {
		return domain.AccessToken{}, s.err
	}
	token := s.tokens[0]
	if len(s.tokens) > 1 {
		s.tokens = s.tokens[1:]
	}
	return token, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTokenRefreshesWhenEmpty(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := &stubIssuer{tokens: []domain.AccessToken{domain.NewAccessToken("t1", now, time.Hour)}}

	svc := NewTokenService(issuer, nil).WithNow(fixedClock(now))

	token, err := svc.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Value != "t1" {
		t.Fatalf("expected token t1, got %q", token.Value)
	}
	if issuer.requests != 1 {
		t.Fatalf("expected 1 token request, got %d", issuer.requests)
	}
}

func TestTokenReusesFreshToken(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := &stubIssuer{tokens: []domain.AccessToken{domain.NewAccessToken("t1", now, time.Hour)}}

	svc := NewTokenService(issuer, nil).WithNow(fixedClock(now))

	if _, err := svc.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if issuer.requests != 1 {
		t.Fatalf("expected a fresh token to be reused without a second request, got %d requests", issuer.requests)
	}
}

func TestTokenServesPreviousTokenWhenRefreshFails(t *testing.T) {
	issued := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := &stubIssuer{tokens: []domain.AccessToken{domain.NewAccessToken("t1", issued, time.Hour)}}

	clock := issued
	svc := NewTokenService(issuer, nil).WithNow(func() time.Time { return clock })

	if _, err := svc.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Past the refresh threshold but before the hard expiry; the upstream
	// request now fails with a 401-equivalent error.
	clock = issued.Add(55 * time.Minute)
	issuer.err = errors.New("unauthorized")

	token, err := svc.Token(context.Background())
	if err != nil {
		t.Fatalf("a still unexpired token must keep serving, got error %v", err)
	}
	if token.Value != "t1" {
		t.Fatalf("expected previous token t1, got %q", token.Value)
	}
}

func TestTokenFailsWhenRefreshFailsAndTokenExpired(t *testing.T) {
	issued := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := &stubIssuer{tokens: []domain.AccessToken{domain.NewAccessToken("t1", issued, time.Hour)}}

	clock := issued
	svc := NewTokenService(issuer, nil).WithNow(func() time.Time { return clock })

	if _, err := svc.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock = issued.Add(2 * time.Hour)
	issuer.err = errors.New("unauthorized")

	if _, err := svc.Token(context.Background()); !errors.Is(err, ErrTokenUnavailable) {
		t.Fatalf("expected ErrTokenUnavailable, got %v", err)
	}
}

func TestTokenFailsWhenNoTokenEverIssued(t *testing.T) {
	issuer := &stubIssuer{err: errors.New("network down")}
	svc := NewTokenService(issuer, nil)

	if _, err := svc.Token(context.Background()); !errors.Is(err, ErrTokenUnavailable) {
		t.Fatalf("expected ErrTokenUnavailable, got %v", err)
	}
}

func TestRefreshStepSchedulesNextRun(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := &stubIssuer{tokens: []domain.AccessToken{domain.NewAccessToken("t1", now, time.Hour)}}

	svc := NewTokenService(issuer, nil).WithNow(fixedClock(now))

	delay, err := svc.RefreshStep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delay != 54*time.Minute {
		t.Fatalf("expected next run in 54m (90%% of the lifetime), got %v", delay)
	}
}

type countingIssuer struct {
	requests atomic.Int32
}

func (s *countingIssuer) RequestToken(_ context.Context) (domain.AccessToken, error) {
	s.requests.Add(1)
	time.Sleep(5 * time.Millisecond)
	return domain.NewAccessToken("shared", time.Now(), time.Hour), nil
}

func TestConcurrentTokenCallsShareOneRefresh(t *testing.T) {
	issuer := &countingIssuer{}
	svc := NewTokenService(issuer, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Token(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := issuer.requests.Load(); got != 1 {
		t.Fatalf("expected concurrent callers to share one refresh, got %d requests", got)
	}
}

func TestRefreshStepRetriesAfterFailure(t *testing.T) {
	issuer := &stubIssuer{err: errors.New("boom")}
	svc := NewTokenService(issuer, nil)

	delay, err := svc.RefreshStep(context.Background())
	if err == nil {
		t.Fatal("expected error from a failed refresh")
	}
	if delay != retryDelay {
		t.Fatalf("expected retry delay %v, got %v", retryDelay, delay)
	}
}
