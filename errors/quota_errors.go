// api/errors/quota_errors.go
package errors

import "fmt"

// QuotaExceededError carries the payload the 403 response body needs.
// quota_remaining is always zero when this error is raised.
type QuotaExceededError struct {
	QuotaLimit int
	QuotaUsed  int
	UpgradeURL string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %d of %d used", e.QuotaUsed, e.QuotaLimit)
}
