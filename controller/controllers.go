// api/controller/controllers.go
package controller

import (
	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/service"
)

type Controllers struct {
	Auth     *AuthController
	Quota    *QuotaController
	APIKey   *APIKeyController
	Campaign *CampaignController
	Content  *ContentController
	Billing  *BillingController
	Audit    *AuditController
}

func InitializeControllers(services *service.Services, tokenService *auth.TokenService, auditService audit.Service) *Controllers {
	return &Controllers{
		Auth:     NewAuthController(services.User, tokenService, auditService),
		Quota:    NewQuotaController(services.Quota, tokenService),
		APIKey:   NewAPIKeyController(services.APIKey, tokenService),
		Campaign: NewCampaignController(services.Campaign, tokenService),
		Content:  NewContentController(services.Content, services.Quota, tokenService, auditService),
		Billing:  NewBillingController(services.Billing),
		Audit:    NewAuditController(auditService, tokenService),
	}
}
