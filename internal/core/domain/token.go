package domain

import "time"

// refreshFraction is the share of a token's validity window after which a
// proactive refresh is due. Refreshing at 90% keeps a healthy margin before
// the hard expiry while avoiding needless token traffic.
const refreshFraction = 0.9

// AccessToken is a bearer token obtained through the client-credentials flow.
// Tokens are immutable; a refresh produces a new value that replaces the old
// one wholesale.
type AccessToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RefreshAt time.Time
}

// NewAccessToken builds a token issued at the given instant with the lifetime
// granted by the identity endpoint. RefreshAt always precedes ExpiresAt.
func NewAccessToken(value string, issuedAt time.Time, lifetime time.Duration) AccessToken {
	return AccessToken{
		Value:     value,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(lifetime),
		RefreshAt: issuedAt.Add(time.Duration(float64(lifetime) * refreshFraction)),
	}
}

// IsExpired reports whether the token is no longer usable at the given instant.
func (t AccessToken) IsExpired(at time.Time) bool {
	return !t.ExpiresAt.After(at)
}

// NeedsRefresh reports whether the token has passed its proactive refresh
// threshold. A token needing refresh may still be presented until it expires.
func (t AccessToken) NeedsRefresh(at time.Time) bool {
	return !t.RefreshAt.After(at)
}

// Lifetime returns the validity window the token was granted at issuance.
func (t AccessToken) Lifetime() time.Duration {
	return t.ExpiresAt.Sub(t.IssuedAt)
}
