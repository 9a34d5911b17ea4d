// api/service/quota_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/util"
)

// IQuotaService enforces the per-user monthly render quota.
type IQuotaService interface {
	Check(ctx context.Context, userID string) error
	Increment(ctx context.Context, userID string) error
	CheckAndIncrement(ctx context.Context, userID string) error
	Status(ctx context.Context, userID string) (*model.QuotaStatus, error)
}

// QuotaStore is the slice of the user persistence layer the enforcer
// needs. *dao.UserDAO satisfies it.
type QuotaStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	IncrementQuotaUsage(ctx context.Context, userID string) (int, error)
}

// QuotaService reads and advances the quota record embedded in the user
// entity. The check and the increment are separate store operations, so
// accuracy under concurrent requests is best-effort; the quota is a
// billing boundary, not a hard consistency invariant.
type QuotaService struct {
	store      QuotaStore
	upgradeURL string
	eventBus   *util.EventBus
}

var _ IQuotaService = &QuotaService{}

func NewQuotaService(store QuotaStore, upgradeURL string, eventBus *util.EventBus) *QuotaService {
	return &QuotaService{store: store, upgradeURL: upgradeURL, eventBus: eventBus}
}

// Check verifies the user still has allowance left. It never mutates
// usage, so a rejected request cannot consume quota.
func (s *QuotaService) Check(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.QuotaUsed >= user.QuotaLimit {
		logger.Warn("Quota exhausted",
			zap.String("userID", userID),
			zap.Int("quotaUsed", user.QuotaUsed),
			zap.Int("quotaLimit", user.QuotaLimit))
		s.eventBus.Publish(ctx, "quota.exceeded", userID)
		return &vidora_errors.QuotaExceededError{
			QuotaLimit: user.QuotaLimit,
			QuotaUsed:  user.QuotaUsed,
			UpgradeURL: s.upgradeURL,
		}
	}
	return nil
}

// Increment consumes one unit of quota. Called after the gated handler
// has succeeded, never before.
func (s *QuotaService) Increment(ctx context.Context, userID string) error {
	used, err := s.store.IncrementQuotaUsage(ctx, userID)
	if err != nil {
		return err
	}
	logger.Debug("Quota consumed",
		zap.String("userID", userID),
		zap.Int("quotaUsed", used))
	return nil
}

// CheckAndIncrement is the combined operation: it rejects when the
// allowance is spent and consumes one unit otherwise.
func (s *QuotaService) CheckAndIncrement(ctx context.Context, userID string) error {
	if err := s.Check(ctx, userID); err != nil {
		return err
	}
	return s.Increment(ctx, userID)
}

// Status returns the read-only quota view for GET /quota.
func (s *QuotaService) Status(ctx context.Context, userID string) (*model.QuotaStatus, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if user.QuotaLimit > 0 {
		percentage = float64(user.QuotaUsed) / float64(user.QuotaLimit) * 100
	}

	return &model.QuotaStatus{
		QuotaLimit:      user.QuotaLimit,
		QuotaUsed:       user.QuotaUsed,
		QuotaRemaining:  user.QuotaRemaining(),
		UsagePercentage: percentage,
		IsExceeded:      user.QuotaUsed >= user.QuotaLimit,
	}, nil
}
