package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Plan         string    `json:"plan"` // "free", "creator", "studio"
	QuotaLimit   int       `json:"quota_limit"`
	QuotaUsed    int       `json:"quota_used"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuotaRemaining is the user's remaining monthly allowance, clamped at zero.
func (u *User) QuotaRemaining() int {
	remaining := u.QuotaLimit - u.QuotaUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// QuotaStatus is the read-only view served by GET /quota.
type QuotaStatus struct {
	QuotaLimit      int     `json:"quota_limit"`
	QuotaUsed       int     `json:"quota_used"`
	QuotaRemaining  int     `json:"quota_remaining"`
	UsagePercentage float64 `json:"usage_percentage"`
	IsExceeded      bool    `json:"is_exceeded"`
}
