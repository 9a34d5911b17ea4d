// api/controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/auth"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/util"
	helper_util "github.com/vidora-labs/vidora/api/util/helper"
)

type AuditController struct {
	auditService audit.Service
	tokenService *auth.TokenService
}

func NewAuditController(auditService audit.Service, tokenService *auth.TokenService) *AuditController {
	return &AuditController{
		auditService: auditService,
		tokenService: tokenService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit/logs", middleware.RequireAuth(ac.tokenService), ac.QueryLogs)
}

// QueryLogs endpoint returns the caller's own audit trail for a time
// range. Defaults to the last 24 hours.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)
	if s := c.Query("from"); s != "" {
		if from, err = helper_util.ParseTime(s); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid from timestamp", err)
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = helper_util.ParseTime(s); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid to timestamp", err)
			return
		}
	}

	logs, err := ac.auditService.QueryLogs(c, from, to, userID, c.Query("resource_id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit logs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
