package model

import "time"

// APIKey authenticates machine callers. The raw secret is never stored;
// only its SHA-256 hash and a short prefix for identification are persisted.
type APIKey struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	KeyHash   string     `json:"-"`
	KeyPrefix string     `json:"key_prefix"` // first 8 chars of the secret
	Label     string     `json:"label"`
	RateLimit int        `json:"rate_limit"` // per-window override, 0 = route default
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// Expired reports whether the key is past its expiry, if one is set.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// CreatedAPIKey is the one-time creation response carrying the raw secret.
type CreatedAPIKey struct {
	APIKey
	Secret string `json:"secret"`
}
