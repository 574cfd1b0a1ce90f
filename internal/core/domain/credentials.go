package domain

import "time"

// Credentials holds the user's access token for the remote store.
// Stored in ~/.designsync/credentials.json with owner-only permissions.
// Lifecycle is independent of document versioning: created by login,
// refreshed in place, deleted by logout.
type Credentials struct {
	// AccessToken is the bearer token attached to every remote call.
	AccessToken string `json:"accessToken"`

	// ExpiresAt is when the token expires. Zero means no known expiry.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// IsAuthenticated returns true if a token is present.
func (c Credentials) IsAuthenticated() bool {
	return c.AccessToken != ""
}

// IsExpired returns true if the token has a known expiry in the past.
func (c Credentials) IsExpired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}
