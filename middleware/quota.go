// api/middleware/quota.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/audit"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
)

// QuotaEnforcer is the slice of the quota service the gate needs.
type QuotaEnforcer interface {
	Check(ctx context.Context, userID string) error
	Increment(ctx context.Context, userID string) error
}

// QuotaGate wraps the allow-listed mutating routes. It checks the
// user's allowance before the handler runs and consumes one unit only
// after the handler succeeded with a 2xx on a mutating verb. A
// successful read never consumes quota, and a rejected request never
// increments usage.
func QuotaGate(quota QuotaEnforcer, auditSvc audit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := quota.Check(c, userID); err != nil {
			var quotaErr *vidora_errors.QuotaExceededError
			if errors.As(err, &quotaErr) {
				logger.Warn("Quota-gated request rejected",
					zap.String("userID", userID),
					zap.String("path", c.Request.URL.Path))

				go func(ip, path string) {
					log := audit.AuditLog{
						Timestamp:     time.Now(),
						UserID:        userID,
						Action:        audit.ActionQuotaDenied,
						ResourceID:    path,
						AccessGranted: false,
						ClientIP:      ip,
					}
					if err := auditSvc.LogEvent(context.Background(), log); err != nil {
						logger.Error("Failed to write quota audit log", zap.Error(err))
					}
				}(c.ClientIP(), c.FullPath())

				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":           "Quota exceeded",
					"message":         "Monthly render quota exhausted, upgrade your plan to continue",
					"quota_limit":     quotaErr.QuotaLimit,
					"quota_used":      quotaErr.QuotaUsed,
					"quota_remaining": 0,
					"upgrade_url":     quotaErr.UpgradeURL,
				})
				return
			}
			if errors.Is(err, vidora_errors.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			logger.Error("Quota check failed", zap.Error(err), zap.String("userID", userID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Next()

		if !isMutating(c.Request.Method) {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		if err := quota.Increment(c, userID); err != nil {
			// The response already went out; usage under-counts here
			// rather than failing a request that succeeded.
			logger.Error("Failed to consume quota after successful request",
				zap.Error(err),
				zap.String("userID", userID),
				zap.String("path", c.Request.URL.Path))
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
