package model

import "time"

type Campaign struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Topic     string    `json:"topic"`
	Cadence   string    `json:"cadence"` // "daily", "weekly", "manual"
	Status    string    `json:"status"`  // "active", "paused", "archived"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
