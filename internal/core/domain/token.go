package domain

import "time"

// DefaultTokenTTLSeconds is assumed when the provider omits expires_in.
const DefaultTokenTTLSeconds = 3600

// TokenRecord represents a stored wallet bearer credential.
//
// IssuedAt is set at persistence time, not supplied by the provider, so that
// expiry can be judged from the stored record alone across restarts.
type TokenRecord struct {
	// AccessToken is the opaque bearer credential for API access.
	AccessToken string `json:"access_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`
	// ExpiresIn is the token lifetime in seconds as reported by the provider.
	ExpiresIn int64 `json:"expires_in,omitempty"`
	// Scope is the space- or comma-separated granted scope string.
	Scope string `json:"scope,omitempty"`
	// RefreshToken is used to obtain new access tokens, when granted.
	RefreshToken string `json:"refresh_token,omitempty"`
	// IssuedAt is the persistence timestamp in epoch milliseconds.
	IssuedAt int64 `json:"issued_at"`
}

// TTL returns the effective lifetime of the record.
func (t *TokenRecord) TTL() time.Duration {
	secs := t.ExpiresIn
	if secs <= 0 {
		secs = DefaultTokenTTLSeconds
	}
	return time.Duration(secs) * time.Second
}

// ValidAt reports whether the record is still valid at the given instant.
// A record is valid iff now - issuedAt < expiresIn (default one hour).
func (t *TokenRecord) ValidAt(now time.Time) bool {
	if t.AccessToken == "" {
		return false
	}
	issued := time.UnixMilli(t.IssuedAt)
	return now.Sub(issued) < t.TTL()
}

// IsExpired reports whether the record has expired as of now.
func (t *TokenRecord) IsExpired() bool {
	return !t.ValidAt(time.Now())
}
