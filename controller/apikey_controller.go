// api/controller/apikey_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/auth"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
)

type APIKeyController struct {
	apiKeyService service.IAPIKeyService
	tokenService  *auth.TokenService
}

func NewAPIKeyController(apiKeyService service.IAPIKeyService, tokenService *auth.TokenService) *APIKeyController {
	return &APIKeyController{
		apiKeyService: apiKeyService,
		tokenService:  tokenService,
	}
}

// RegisterRoutes registers the API routes
func (kc *APIKeyController) RegisterRoutes(r *gin.RouterGroup) {
	keys := r.Group("/apikeys", middleware.RequireAuth(kc.tokenService))
	{
		keys.POST("", kc.CreateKey)
		keys.GET("", kc.ListKeys)
		keys.DELETE("/:id", kc.DeactivateKey)
	}
}

type createKeyRequest struct {
	Label     string     `json:"label" binding:"required"`
	RateLimit int        `json:"rate_limit"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateKey endpoint. The raw secret appears in this response only.
func (kc *APIKeyController) CreateKey(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	var req createKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid API key data", err)
		return
	}

	created, err := kc.apiKeyService.CreateKey(c, userID, req.Label, req.RateLimit, req.ExpiresAt)
	if err != nil {
		if err == vidora_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create API key", err)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListKeys endpoint
func (kc *APIKeyController) ListKeys(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	keys, err := kc.apiKeyService.ListKeys(c, userID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list API keys", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_keys": keys})
}

// DeactivateKey endpoint
func (kc *APIKeyController) DeactivateKey(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	keyID := c.Param("id")
	if err := kc.apiKeyService.DeactivateKey(c, userID, keyID); err != nil {
		if err == vidora_errors.ErrAPIKeyNotFound {
			util.RespondWithError(c, http.StatusNotFound, "API key not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate API key", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
