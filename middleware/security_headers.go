// api/middleware/security_headers.go

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/config"
)

// Path prefixes whose responses must never be cached, regardless of
// environment.
var noStorePrefixes = []string{"/auth", "/billing"}

// SecurityHeaders stamps every response, including error paths; the
// headers are written before the handler chain runs so an abort cannot
// skip them. Strict transport security and the CORS allow-list apply
// only outside the permissive development mode.
func SecurityHeaders() gin.HandlerFunc {
	production := config.IsProduction()
	allowedOrigin := config.GetString("server.corsAllowedOrigin")

	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		if production {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			if allowedOrigin != "" {
				c.Header("Access-Control-Allow-Origin", allowedOrigin)
				c.Header("Vary", "Origin")
			}
		}

		for _, prefix := range noStorePrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Header("Cache-Control", "no-store")
				c.Header("Pragma", "no-cache")
				break
			}
		}

		c.Next()
	}
}
