// api/middleware/rate_limiter.go

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/db"
	logger "github.com/vidora-labs/vidora/api/logging"
)

// RouteLimit is the (limit, window) pair applied to one route prefix.
type RouteLimit struct {
	Limit  int
	Window time.Duration
}

// RouteRule maps a path prefix to its limit.
type RouteRule struct {
	Prefix string
	RouteLimit
}

// RateLimitTable is the immutable route -> limit mapping, built once at
// startup. Longest matching prefix wins; unmatched paths use Default.
type RateLimitTable struct {
	Default RouteLimit
	Rules   []RouteRule
}

// Lookup returns the counter route key and the limit for a path.
func (t *RateLimitTable) Lookup(path string) (string, RouteLimit) {
	match := ""
	limit := t.Default
	for _, rule := range t.Rules {
		if strings.HasPrefix(path, rule.Prefix) && len(rule.Prefix) > len(match) {
			match = rule.Prefix
			limit = rule.RouteLimit
		}
	}
	if match == "" {
		return "default", t.Default
	}
	return match, limit
}

// RateLimitStore performs the fixed-window check against the counter
// store. db.CheckRateLimit is the production implementation.
type RateLimitStore func(ctx context.Context, partition, route string, limit int, window time.Duration) (*db.RateLimitResult, error)

// RateLimiter enforces the per-caller fixed-window limits. It runs
// before any handler logic, so a rate-limited request never reaches the
// quota enforcer. Partition key is the resolved subject when identity
// ran first, the client IP otherwise. A per-API-key limit placed in the
// context overrides the table entry for that request only.
//
// The limiter fails open: when the counter store is unreachable the
// request is allowed and a warning is logged.
func RateLimiter(table *RateLimitTable) gin.HandlerFunc {
	return RateLimiterWithStore(table, db.CheckRateLimit)
}

func RateLimiterWithStore(table *RateLimitTable, store RateLimitStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		partition := c.GetString(ContextUserID)
		if partition == "" {
			partition = c.ClientIP()
		}

		route, limit := table.Lookup(c.Request.URL.Path)
		if override := c.GetInt(ContextAPIKeyRateLimit); override > 0 {
			limit.Limit = override
		}

		result, err := store(c, partition, route, limit.Limit, limit.Window)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request",
				zap.Error(err),
				zap.String("partition", partition),
				zap.String("route", route))
			c.Next()
			return
		}

		// Headers go on every checked response, allowed or not
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(result.Reset.Seconds())))

		if !result.Allowed {
			retryAfter := int(result.Reset.Seconds())
			logger.Warn("Rate limit exceeded",
				zap.String("partition", partition),
				zap.String("route", route),
				zap.Int("limit", limit.Limit),
				zap.Int64("count", result.Count))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too Many Requests",
				"message":     "Rate limit exceeded for this route, slow down and retry later",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// IPBlocklist rejects requests from addresses on the store-backed
// blocklist. Like the limiter it fails open on store errors.
func IPBlocklist() gin.HandlerFunc {
	return func(c *gin.Context) {
		blocked, err := db.IsIPBlocked(c, c.ClientIP())
		if err != nil {
			logger.Warn("IP blocklist check failed, allowing request",
				zap.Error(err),
				zap.String("ip", c.ClientIP()))
			c.Next()
			return
		}
		if blocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
