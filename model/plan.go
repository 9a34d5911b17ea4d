package model

// Plan describes a billing tier and the monthly render quota it grants.
type Plan struct {
	Name         string `json:"name"`
	MonthlyQuota int    `json:"monthly_quota"`
	PriceCents   int    `json:"price_cents"`
}

// RenewalEvent is the processor-agnostic envelope the billing webhook
// receives when a subscription period renews. The payment-processor SDK
// and signature scheme live outside this service.
type RenewalEvent struct {
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
	Period string `json:"period"` // e.g. "2026-08"
}
