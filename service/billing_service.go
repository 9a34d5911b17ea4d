// api/service/billing_service.go
package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/util"
)

// IBillingService defines the interface for the billing surface
type IBillingService interface {
	Plans() []model.Plan
	ProcessRenewal(ctx context.Context, event model.RenewalEvent) error
}

// RenewalStore is the slice of the user persistence layer renewals
// need. *dao.UserDAO satisfies it.
type RenewalStore interface {
	ResetQuota(ctx context.Context, userID, plan string, quotaLimit int) error
}

// BillingService applies renewal events from the payment processor. The
// processor SDK and webhook signature verification sit in front of this
// service; by the time an event arrives here it is trusted.
type BillingService struct {
	store    RenewalStore
	plans    map[string]model.Plan
	eventBus *util.EventBus
}

var _ IBillingService = &BillingService{}

// NewBillingService builds the service from the immutable plan table
// loaded at startup (plan name -> monthly quota).
func NewBillingService(store RenewalStore, planQuotas map[string]int, eventBus *util.EventBus) *BillingService {
	plans := make(map[string]model.Plan, len(planQuotas))
	for name, quota := range planQuotas {
		plans[name] = model.Plan{Name: name, MonthlyQuota: quota}
	}
	return &BillingService{
		store:    store,
		plans:    plans,
		eventBus: eventBus,
	}
}

func (s *BillingService) Plans() []model.Plan {
	plans := make([]model.Plan, 0, len(s.plans))
	for _, plan := range s.plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].MonthlyQuota < plans[j].MonthlyQuota
	})
	return plans
}

// ProcessRenewal zeroes the user's quota usage and applies the renewed
// plan's limit. This is the only path that resets quota_used; the quota
// enforcer itself never does time-based resets.
func (s *BillingService) ProcessRenewal(ctx context.Context, event model.RenewalEvent) error {
	plan, ok := s.plans[event.Plan]
	if !ok {
		logger.Warn("Renewal for unknown plan", zap.String("plan", event.Plan), zap.String("userID", event.UserID))
		return vidora_errors.ErrInvalidUserData
	}

	if err := s.store.ResetQuota(ctx, event.UserID, plan.Name, plan.MonthlyQuota); err != nil {
		return err
	}

	logger.Info("Billing period renewed",
		zap.String("userID", event.UserID),
		zap.String("plan", plan.Name),
		zap.String("period", event.Period))

	s.eventBus.Publish(ctx, "billing.renewed", event)
	return nil
}
