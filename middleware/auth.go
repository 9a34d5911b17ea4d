// api/middleware/auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/auth"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
)

// Context keys set by the identity middlewares.
const (
	ContextUserID          = "userID"
	ContextAuthScheme      = "authScheme"
	ContextAPIKeyRateLimit = "apiKeyRateLimit"
)

const apiKeyHeader = "X-API-Key"

// APIKeyResolver resolves a presented secret to its key record.
// service.APIKeyService satisfies it.
type APIKeyResolver interface {
	ResolveKey(ctx context.Context, secret string) (*model.APIKey, error)
}

// IdentityResolver resolves the caller to a stable subject identifier
// for rate-limit partitioning, without rejecting anonymous requests.
// Bearer tokens are decoded without strict validation here; the strict
// check happens in RequireAuth on protected routes. API keys are fully
// resolved: a presented-but-invalid key is rejected immediately.
func IdentityResolver(tokenSvc *auth.TokenService, keys APIKeyResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret := c.GetHeader(apiKeyHeader); secret != "" {
			key, err := keys.ResolveKey(c, secret)
			if err != nil {
				if isAPIKeyCredentialError(err) {
					logger.Warn("API key rejected", zap.Error(err), zap.String("ip", c.ClientIP()))
					c.Header("WWW-Authenticate", "ApiKey")
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
					return
				}
				// Store outage, not a bad credential
				logger.Error("API key lookup failed", zap.Error(err), zap.String("ip", c.ClientIP()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.Set(ContextUserID, key.UserID)
			c.Set(ContextAuthScheme, "apikey")
			if key.RateLimit > 0 {
				c.Set(ContextAPIKeyRateLimit, key.RateLimit)
			}
			c.Next()
			return
		}

		if token := bearerToken(c); token != "" {
			// Non-authoritative decode: the subject only partitions the
			// rate counter. RequireAuth does the real validation.
			if claims, err := tokenSvc.DecodeUnverified(token); err == nil {
				c.Set(ContextUserID, claims.Subject)
				c.Set(ContextAuthScheme, "bearer")
			}
		}

		c.Next()
	}
}

// RequireAuth guards protected routes. Bearer tokens get full
// validation (signature, expiry, kind, revocation); API-key callers
// were already authenticated by IdentityResolver.
func RequireAuth(tokenSvc *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextAuthScheme) == "apikey" {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims := tokenSvc.Validate(c, token, auth.AccessToken)
		if claims == nil {
			logger.Warn("Access token rejected", zap.String("ip", c.ClientIP()))
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextAuthScheme, "bearer")
		c.Next()
	}
}

func isAPIKeyCredentialError(err error) bool {
	return errors.Is(err, vidora_errors.ErrAPIKeyNotFound) ||
		errors.Is(err, vidora_errors.ErrAPIKeyInactive) ||
		errors.Is(err, vidora_errors.ErrAPIKeyExpired)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
