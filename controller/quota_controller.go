// api/controller/quota_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/auth"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
)

type QuotaController struct {
	quotaService service.IQuotaService
	tokenService *auth.TokenService
}

func NewQuotaController(quotaService service.IQuotaService, tokenService *auth.TokenService) *QuotaController {
	return &QuotaController{
		quotaService: quotaService,
		tokenService: tokenService,
	}
}

// RegisterRoutes registers the API routes
func (qc *QuotaController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/quota", middleware.RequireAuth(qc.tokenService), qc.GetQuota)
}

// GetQuota endpoint returns the caller's current allowance.
func (qc *QuotaController) GetQuota(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	status, err := qc.quotaService.Status(c, userID)
	if err != nil {
		if err == vidora_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to load quota", err)
		}
		return
	}

	c.JSON(http.StatusOK, status)
}
