// api/controller/content_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/auth"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
	helper_util "github.com/vidora-labs/vidora/api/util/helper"
)

type ContentController struct {
	contentService service.IContentService
	quotaService   service.IQuotaService
	tokenService   *auth.TokenService
	auditService   audit.Service
}

func NewContentController(contentService service.IContentService, quotaService service.IQuotaService, tokenService *auth.TokenService, auditService audit.Service) *ContentController {
	return &ContentController{
		contentService: contentService,
		quotaService:   quotaService,
		tokenService:   tokenService,
		auditService:   auditService,
	}
}

// RegisterRoutes registers the API routes. The render endpoints are the
// quota-gated allow-list; the content reads next to them are exempt.
func (cc *ContentController) RegisterRoutes(r *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(cc.tokenService)
	quotaGate := middleware.QuotaGate(cc.quotaService, cc.auditService)

	content := r.Group("/content", requireAuth)
	{
		content.POST("", cc.CreateContent)
		content.GET("/:id", cc.GetContent)
	}
	r.GET("/campaigns/:id/content", requireAuth, cc.ListContent)

	r.POST("/video/render", requireAuth, quotaGate, cc.renderHandler("video"))
	r.POST("/audio/generate", requireAuth, quotaGate, cc.renderHandler("audio"))
	r.POST("/writer/generate", requireAuth, quotaGate, cc.renderHandler("script"))
	r.POST("/remotion/render", requireAuth, quotaGate, cc.renderHandler("remotion"))
}

// CreateContent endpoint
func (cc *ContentController) CreateContent(c *gin.Context) {
	var content model.ContentItem
	if err := c.ShouldBindJSON(&content); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid content data", vidora_errors.ErrInvalidContentData)
		return
	}
	ownerID, err := util.GetUserIDFromContext(c)
	if err != nil || ownerID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}
	content.OwnerID = ownerID

	created, err := cc.contentService.CreateContent(c, content)
	if err != nil {
		switch err {
		case vidora_errors.ErrInvalidContentData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid content data", err)
		case vidora_errors.ErrCampaignNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Campaign not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create content", vidora_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetContent endpoint
func (cc *ContentController) GetContent(c *gin.Context) {
	contentID := c.Param("id")

	content, err := cc.contentService.GetContent(c, contentID)
	if err != nil {
		if err == vidora_errors.ErrContentNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Content not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get content", err)
		}
		return
	}

	c.JSON(http.StatusOK, content)
}

// ListContent endpoint
func (cc *ContentController) ListContent(c *gin.Context) {
	campaignID := c.Param("id")

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	items, err := cc.contentService.ListContent(c, campaignID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list content", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": items})
}

// renderHandler builds the handler for one render kind. Quota is
// checked by the gate before this runs and consumed after it succeeds.
func (cc *ContentController) renderHandler(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := util.GetUserIDFromContext(c)
		if err != nil || ownerID == "" {
			util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
			return
		}

		var req model.RenderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid render request", vidora_errors.ErrInvalidContentData)
			return
		}

		job, err := cc.contentService.RequestRender(c, ownerID, kind, req)
		if err != nil {
			switch err {
			case vidora_errors.ErrInvalidContentData:
				util.RespondWithError(c, http.StatusBadRequest, "Invalid render request", err)
			case vidora_errors.ErrContentNotFound:
				util.RespondWithError(c, http.StatusNotFound, "Content not found", err)
			default:
				util.RespondWithError(c, http.StatusInternalServerError, "Failed to queue render", vidora_errors.ErrInternalServer)
			}
			return
		}

		c.JSON(http.StatusAccepted, job)
	}
}
