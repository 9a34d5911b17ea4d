// api/service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/dao"
	"github.com/vidora-labs/vidora/api/util"
)

type Services struct {
	User     IUserService
	Quota    IQuotaService
	Campaign ICampaignService
	Content  IContentService
	APIKey   IAPIKeyService
	Billing  IBillingService
}

func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	upgradeURL string,
	planQuotas map[string]int,
) (*Services, error) {
	userDAO := dao.NewUserDAO(driver, auditService)
	campaignDAO := dao.NewCampaignDAO(driver, auditService)
	contentDAO := dao.NewContentDAO(driver, auditService)
	apiKeyDAO := dao.NewAPIKeyDAO(driver, auditService)

	services := &Services{
		User:     NewUserService(userDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Quota:    NewQuotaService(userDAO, upgradeURL, eventBus),
		Campaign: NewCampaignService(campaignDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Content:  NewContentService(contentDAO, validationUtil, notificationSvc, eventBus),
		APIKey:   NewAPIKeyService(apiKeyDAO),
		Billing:  NewBillingService(userDAO, planQuotas, eventBus),
	}

	return services, nil
}
