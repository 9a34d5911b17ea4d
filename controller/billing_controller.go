// api/controller/billing_controller.go
package controller

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidora-labs/vidora/api/config"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
)

type BillingController struct {
	billingService service.IBillingService
}

func NewBillingController(billingService service.IBillingService) *BillingController {
	return &BillingController{billingService: billingService}
}

// RegisterRoutes registers the API routes
func (bc *BillingController) RegisterRoutes(r *gin.RouterGroup) {
	billing := r.Group("/billing")
	{
		billing.GET("/plans", bc.ListPlans)
		billing.POST("/webhook", bc.RenewalWebhook)
	}
}

// ListPlans endpoint
func (bc *BillingController) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": bc.billingService.Plans()})
}

// RenewalWebhook endpoint applies a billing-period renewal: quota usage
// resets to zero and the renewed plan's limit takes effect. The shared
// secret stands in for the payment processor's signature scheme, which
// lives outside this service.
func (bc *BillingController) RenewalWebhook(c *gin.Context) {
	secret := config.GetString("billing.webhookSecret")
	presented := c.GetHeader("X-Webhook-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) != 1 {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	var event model.RenewalEvent
	if err := c.ShouldBindJSON(&event); err != nil || event.UserID == "" || event.Plan == "" {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid renewal event", vidora_errors.ErrInvalidUserData)
		return
	}

	if err := bc.billingService.ProcessRenewal(c, event); err != nil {
		switch err {
		case vidora_errors.ErrUserNotFound:
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case vidora_errors.ErrInvalidUserData:
			util.RespondWithError(c, http.StatusBadRequest, "Unknown plan", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to process renewal", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Renewal processed"})
}
