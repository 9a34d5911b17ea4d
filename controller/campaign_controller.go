// api/controller/campaign_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/auth"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
	helper_util "github.com/vidora-labs/vidora/api/util/helper"
)

type CampaignController struct {
	campaignService service.ICampaignService
	tokenService    *auth.TokenService
}

func NewCampaignController(campaignService service.ICampaignService, tokenService *auth.TokenService) *CampaignController {
	return &CampaignController{
		campaignService: campaignService,
		tokenService:    tokenService,
	}
}

// RegisterRoutes registers the API routes
func (cc *CampaignController) RegisterRoutes(r *gin.RouterGroup) {
	campaigns := r.Group("/campaigns", middleware.RequireAuth(cc.tokenService))
	{
		campaigns.POST("", cc.CreateCampaign)
		campaigns.PUT("/:id", cc.UpdateCampaign)
		campaigns.DELETE("/:id", cc.DeleteCampaign)
		campaigns.GET("/:id", cc.GetCampaign)
		campaigns.GET("", cc.ListCampaigns)
	}
}

// CreateCampaign endpoint
func (cc *CampaignController) CreateCampaign(c *gin.Context) {
	var campaign model.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid campaign data", vidora_errors.ErrInvalidCampaignData)
		return
	}
	ownerID, err := util.GetUserIDFromContext(c)
	if err != nil || ownerID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}
	campaign.OwnerID = ownerID

	createdCampaign, err := cc.campaignService.CreateCampaign(c, campaign)
	if err != nil {
		switch err {
		case vidora_errors.ErrInvalidCampaignData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid campaign data", err)
		case vidora_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create campaign", vidora_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, createdCampaign)
}

// UpdateCampaign endpoint
func (cc *CampaignController) UpdateCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	var campaign model.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid campaign data", err)
		return
	}
	campaign.ID = campaignID
	ownerID, err := util.GetUserIDFromContext(c)
	if err != nil || ownerID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}
	campaign.OwnerID = ownerID

	updatedCampaign, err := cc.campaignService.UpdateCampaign(c, campaign)
	if err != nil {
		switch err {
		case vidora_errors.ErrCampaignNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Campaign not found", err)
		case vidora_errors.ErrForbidden:
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update campaign", err)
		}
		return
	}

	c.JSON(http.StatusOK, updatedCampaign)
}

// DeleteCampaign endpoint
func (cc *CampaignController) DeleteCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	ownerID, err := util.GetUserIDFromContext(c)
	if err != nil || ownerID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	if err := cc.campaignService.DeleteCampaign(c, campaignID, ownerID); err != nil {
		switch err {
		case vidora_errors.ErrCampaignNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Campaign not found", err)
		case vidora_errors.ErrForbidden:
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete campaign", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCampaign endpoint
func (cc *CampaignController) GetCampaign(c *gin.Context) {
	campaignID := c.Param("id")

	campaign, err := cc.campaignService.GetCampaign(c, campaignID)
	if err != nil {
		if err == vidora_errors.ErrCampaignNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Campaign not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get campaign", err)
		}
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// ListCampaigns endpoint
func (cc *CampaignController) ListCampaigns(c *gin.Context) {
	ownerID, err := util.GetUserIDFromContext(c)
	if err != nil || ownerID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	campaigns, err := cc.campaignService.ListCampaigns(c, ownerID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list campaigns", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}
