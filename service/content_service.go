// api/service/content_service.go
package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/dao"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/util"
)

// IContentService defines the interface for content and render operations
type IContentService interface {
	CreateContent(ctx context.Context, content model.ContentItem) (*model.ContentItem, error)
	GetContent(ctx context.Context, contentID string) (*model.ContentItem, error)
	ListContent(ctx context.Context, campaignID string, limit, offset int) ([]*model.ContentItem, error)
	RequestRender(ctx context.Context, ownerID, kind string, req model.RenderRequest) (*model.RenderJob, error)
}

// ContentService handles content items and render job intake. The
// model-provider calls (TTS, video, lipsync) live behind the event bus,
// outside this service.
type ContentService struct {
	contentDAO      *dao.ContentDAO
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IContentService = &ContentService{}

func NewContentService(contentDAO *dao.ContentDAO, validationUtil *util.ValidationUtil, notificationSvc *util.NotificationService, eventBus *util.EventBus) *ContentService {
	service := &ContentService{
		contentDAO:      contentDAO,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("render.requested", service.handleRenderRequested)

	return service
}

func (s *ContentService) handleRenderRequested(ctx context.Context, event util.Event) error {
	job := event.Payload.(model.RenderJob)
	logger.Info("Render requested event received",
		zap.String("jobID", job.ID),
		zap.String("kind", job.Kind))

	if err := s.notificationSvc.NotifyRenderQueued(ctx, job); err != nil {
		logger.Warn("Failed to send render notification", zap.Error(err), zap.String("jobID", job.ID))
	}
	return nil
}

func (s *ContentService) CreateContent(ctx context.Context, content model.ContentItem) (*model.ContentItem, error) {
	if err := s.validationUtil.ValidateContent(content); err != nil {
		return nil, vidora_errors.ErrInvalidContentData
	}
	if content.Status == "" {
		content.Status = "draft"
	}

	contentID, err := s.contentDAO.CreateContent(ctx, content)
	if err != nil {
		return nil, err
	}
	return s.contentDAO.GetContent(ctx, contentID)
}

func (s *ContentService) GetContent(ctx context.Context, contentID string) (*model.ContentItem, error) {
	return s.contentDAO.GetContent(ctx, contentID)
}

func (s *ContentService) ListContent(ctx context.Context, campaignID string, limit, offset int) ([]*model.ContentItem, error) {
	return s.contentDAO.ListContent(ctx, campaignID, limit, offset)
}

// RequestRender records a render job and hands it to the event bus.
func (s *ContentService) RequestRender(ctx context.Context, ownerID, kind string, req model.RenderRequest) (*model.RenderJob, error) {
	if err := s.validationUtil.ValidateRenderRequest(kind, req); err != nil {
		return nil, vidora_errors.ErrInvalidContentData
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, vidora_errors.ErrInternalServer
	}

	job := model.RenderJob{
		OwnerID:   ownerID,
		ContentID: req.ContentID,
		Kind:      kind,
		Status:    "queued",
		Payload:   string(payload),
	}

	jobID, err := s.contentDAO.CreateRenderJob(ctx, job)
	if err != nil {
		return nil, err
	}
	job.ID = jobID

	if req.ContentID != "" {
		if err := s.contentDAO.UpdateContentStatus(ctx, req.ContentID, "rendering", ""); err != nil {
			logger.Warn("Failed to mark content as rendering",
				zap.Error(err),
				zap.String("contentID", req.ContentID))
		}
	}

	s.eventBus.Publish(ctx, "render.requested", job)

	return &job, nil
}
