// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType string, user model.User) error {
	switch changeType {
	case "created", "updated", "deleted":
		logger.Info("NOTIFICATION: User "+changeType,
			zap.String("userID", user.ID),
			zap.String("email", user.Email))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyCampaignChange(ctx context.Context, changeType string, campaign model.Campaign) error {
	switch changeType {
	case "created", "updated", "deleted":
		logger.Info("NOTIFICATION: Campaign "+changeType,
			zap.String("campaignID", campaign.ID),
			zap.String("campaignName", campaign.Name))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyRenderQueued(ctx context.Context, job model.RenderJob) error {
	logger.Info("NOTIFICATION: Render queued",
		zap.String("jobID", job.ID),
		zap.String("kind", job.Kind),
		zap.String("ownerID", job.OwnerID))
	return nil
}

func (n *NotificationService) NotifyQuotaExhausted(ctx context.Context, userID string) error {
	logger.Info("NOTIFICATION: Quota exhausted", zap.String("userID", userID))
	return nil
}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	// Mock email sending
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))

	// Here you would implement the actual email sending logic
	// This could involve calling an email service API, using an SMTP client, etc.

	return nil
}
