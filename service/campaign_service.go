// api/service/campaign_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/dao"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/util"
)

// ICampaignService defines the interface for campaign operations
type ICampaignService interface {
	CreateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID, requesterID string) error
	GetCampaign(ctx context.Context, campaignID string) (*model.Campaign, error)
	ListCampaigns(ctx context.Context, ownerID string, limit, offset int) ([]*model.Campaign, error)
}

// CampaignService handles business logic for campaign operations
type CampaignService struct {
	campaignDAO     *dao.CampaignDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ ICampaignService = &CampaignService{}

func NewCampaignService(campaignDAO *dao.CampaignDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *CampaignService {
	service := &CampaignService{
		campaignDAO:     campaignDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("campaign.created", service.handleCampaignCreated)

	return service
}

func (s *CampaignService) handleCampaignCreated(ctx context.Context, event util.Event) error {
	campaign := event.Payload.(model.Campaign)
	logger.Info("Campaign created event received", zap.String("campaignID", campaign.ID))

	if err := s.notificationSvc.NotifyCampaignChange(ctx, "created", campaign); err != nil {
		logger.Warn("Failed to send campaign creation notification",
			zap.Error(err),
			zap.String("campaignID", campaign.ID))
	}
	return nil
}

func (s *CampaignService) CreateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error) {
	if err := s.validationUtil.ValidateCampaign(campaign); err != nil {
		return nil, vidora_errors.ErrInvalidCampaignData
	}
	if campaign.Status == "" {
		campaign.Status = "active"
	}

	campaignID, err := s.campaignDAO.CreateCampaign(ctx, campaign)
	if err != nil {
		return nil, err
	}

	created, err := s.campaignDAO.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetCampaign(ctx, *created); err != nil {
		logger.Warn("Failed to cache campaign", zap.Error(err), zap.String("campaignID", campaignID))
	}
	s.eventBus.Publish(ctx, "campaign.created", *created)

	return created, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error) {
	if err := s.validationUtil.ValidateCampaign(campaign); err != nil {
		return nil, vidora_errors.ErrInvalidCampaignData
	}

	existing, err := s.campaignDAO.GetCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != campaign.OwnerID {
		return nil, vidora_errors.ErrForbidden
	}

	updated, err := s.campaignDAO.UpdateCampaign(ctx, campaign)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.DeleteCampaign(ctx, campaign.ID); err != nil {
		logger.Warn("Failed to invalidate campaign cache", zap.Error(err), zap.String("campaignID", campaign.ID))
	}
	return updated, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, campaignID, requesterID string) error {
	existing, err := s.campaignDAO.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if existing.OwnerID != requesterID {
		return vidora_errors.ErrForbidden
	}

	if err := s.campaignDAO.DeleteCampaign(ctx, campaignID); err != nil {
		return err
	}
	if err := s.cacheService.DeleteCampaign(ctx, campaignID); err != nil {
		logger.Warn("Failed to invalidate campaign cache", zap.Error(err), zap.String("campaignID", campaignID))
	}
	return nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	cached, err := s.cacheService.GetCampaign(ctx, campaignID)
	if err != nil {
		logger.Warn("Campaign cache lookup failed", zap.Error(err), zap.String("campaignID", campaignID))
	} else if cached != nil {
		return cached, nil
	}

	campaign, err := s.campaignDAO.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetCampaign(ctx, *campaign); err != nil {
		logger.Warn("Failed to cache campaign", zap.Error(err), zap.String("campaignID", campaignID))
	}
	return campaign, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, ownerID string, limit, offset int) ([]*model.Campaign, error) {
	return s.campaignDAO.ListCampaigns(ctx, ownerID, limit, offset)
}
