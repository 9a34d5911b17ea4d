// api/service/quota_service_test.go
package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
)

// memoryQuotaStore backs the enforcer with a single in-memory user.
type memoryQuotaStore struct {
	user *model.User
	err  error
}

func (s *memoryQuotaStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.ID != userID {
		return nil, vidora_errors.ErrUserNotFound
	}
	u := *s.user
	return &u, nil
}

func (s *memoryQuotaStore) IncrementQuotaUsage(ctx context.Context, userID string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.user == nil || s.user.ID != userID {
		return 0, vidora_errors.ErrUserNotFound
	}
	s.user.QuotaUsed++
	return s.user.QuotaUsed, nil
}

func TestQuotaService(t *testing.T) {
	logger.InitTestLogger()
	ctx := context.Background()

	t.Run("CheckUnderLimit", func(t *testing.T) {
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 10, QuotaUsed: 3}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		assert.NoError(t, svc.Check(ctx, "user-1"))
		assert.Equal(t, 3, store.user.QuotaUsed)
	})

	t.Run("CheckAtLimit", func(t *testing.T) {
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 10, QuotaUsed: 10}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		err := svc.Check(ctx, "user-1")
		var quotaErr *vidora_errors.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, 10, quotaErr.QuotaLimit)
		assert.Equal(t, 10, quotaErr.QuotaUsed)
		assert.Equal(t, "/billing/plans", quotaErr.UpgradeURL)
	})

	t.Run("CheckOverLimit", func(t *testing.T) {
		// Usage can drift past the limit under concurrent requests;
		// the check still rejects
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 10, QuotaUsed: 12}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		var quotaErr *vidora_errors.QuotaExceededError
		assert.ErrorAs(t, svc.Check(ctx, "user-1"), &quotaErr)
	})

	t.Run("CheckUnknownUser", func(t *testing.T) {
		store := &memoryQuotaStore{}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		assert.ErrorIs(t, svc.Check(ctx, "user-gone"), vidora_errors.ErrUserNotFound)
	})

	t.Run("CheckAndIncrementConsumesExactly", func(t *testing.T) {
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 3}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		for i := 0; i < 3; i++ {
			require.NoError(t, svc.CheckAndIncrement(ctx, "user-1"))
		}
		assert.Equal(t, 3, store.user.QuotaUsed)

		// The allowance is spent; no further increment happens
		var quotaErr *vidora_errors.QuotaExceededError
		assert.ErrorAs(t, svc.CheckAndIncrement(ctx, "user-1"), &quotaErr)
		assert.Equal(t, 3, store.user.QuotaUsed)
	})

	t.Run("IncrementPropagatesStoreError", func(t *testing.T) {
		store := &memoryQuotaStore{err: errors.New("neo4j down")}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		assert.Error(t, svc.Increment(ctx, "user-1"))
	})

	t.Run("Status", func(t *testing.T) {
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 10, QuotaUsed: 4}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		status, err := svc.Status(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 10, status.QuotaLimit)
		assert.Equal(t, 4, status.QuotaUsed)
		assert.Equal(t, 6, status.QuotaRemaining)
		assert.InDelta(t, 40.0, status.UsagePercentage, 0.001)
		assert.False(t, status.IsExceeded)
	})

	t.Run("StatusExceeded", func(t *testing.T) {
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 10, QuotaUsed: 11}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		status, err := svc.Status(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0, status.QuotaRemaining)
		assert.True(t, status.IsExceeded)
	})

	t.Run("StatusZeroLimit", func(t *testing.T) {
		store := &memoryQuotaStore{user: &model.User{ID: "user-1", QuotaLimit: 0, QuotaUsed: 0}}
		svc := service.NewQuotaService(store, "/billing/plans", util.NewEventBus())

		status, err := svc.Status(ctx, "user-1")
		require.NoError(t, err)
		assert.Zero(t, status.UsagePercentage)
		assert.True(t, status.IsExceeded)
	})
}
