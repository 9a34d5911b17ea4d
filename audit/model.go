// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Actions recorded by this service.
const (
	ActionLogin           = "LOGIN"
	ActionLogout          = "LOGOUT"
	ActionQuotaDenied = "QUOTA_DENIED"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceID    string          `json:"resource_id"`
	AccessGranted bool            `json:"access_granted"`
	ClientIP      string          `json:"client_ip,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
}
