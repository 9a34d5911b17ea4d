package model

import "time"

type ContentItem struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Script     string    `json:"script"`
	Status     string    `json:"status"` // "draft", "rendering", "ready", "failed"
	VideoURL   string    `json:"video_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RenderJob tracks one requested generation run. The model-provider call
// happens outside this service; jobs are picked up from the event bus.
type RenderJob struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ContentID string    `json:"content_id,omitempty"`
	Kind      string    `json:"kind"` // "video", "audio", "script", "remotion"
	Status    string    `json:"status"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RenderRequest struct {
	ContentID string `json:"content_id,omitempty"`
	Script    string `json:"script,omitempty"`
	Voice     string `json:"voice,omitempty"`
	Template  string `json:"template,omitempty"`
}
