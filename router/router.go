// api/router/router.go

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/controller"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/service"
)

// SetupRouter builds the request pipeline. Stage order is significant:
// security headers wrap everything (error paths included), the IP
// blocklist and identity resolver run next so the rate limiter can
// partition by subject, and rate limiting runs before any handler or
// quota logic, so a rate-limited request never consumes quota. The
// quota gate itself is attached per-route inside the content
// controller.
func SetupRouter(
	controllers *controller.Controllers,
	tokenService *auth.TokenService,
	apiKeyService service.IAPIKeyService,
	rateLimits *middleware.RateLimitTable,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Logger())
	router.Use(middleware.IPBlocklist())
	router.Use(middleware.IdentityResolver(tokenService, apiKeyService))
	router.Use(middleware.RateLimiter(rateLimits))

	api := router.Group("/")

	controllers.Auth.RegisterRoutes(api)
	controllers.Quota.RegisterRoutes(api)
	controllers.APIKey.RegisterRoutes(api)
	controllers.Campaign.RegisterRoutes(api)
	controllers.Content.RegisterRoutes(api)
	controllers.Billing.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	return router
}
