package domain

import (
	"math"
	"time"
)

// Application is a snapshot of an Azure AD application registration as
// returned by the Graph directory API. Instances are immutable once fetched;
// the cache replaces whole snapshots rather than patching them.
//
// https://learn.microsoft.com/en-us/graph/api/resources/application?view=graph-rest-1.0#properties
type Application struct {
	ID                  string               `json:"id"`
	AppID               string               `json:"appId"`
	DisplayName         *string              `json:"displayName"`
	CreatedDateTime     *time.Time           `json:"createdDateTime"`
	PasswordCredentials []PasswordCredential `json:"passwordCredentials"`
}

// PasswordCredential is a single client secret attached to an application.
type PasswordCredential struct {
	KeyID         string     `json:"keyId"`
	DisplayName   *string    `json:"displayName"`
	StartDateTime *time.Time `json:"startDateTime"`
	EndDateTime   *time.Time `json:"endDateTime"`
}

// RemainingSeconds returns the seconds left until the credential expires,
// measured from the given instant. Negative once the credential has expired.
// Credentials without an end date never expire and report +Inf.
func (p PasswordCredential) RemainingSeconds(at time.Time) float64 {
	if p.EndDateTime == nil {
		return math.Inf(1)
	}
	return p.EndDateTime.Sub(at).Seconds()
}
