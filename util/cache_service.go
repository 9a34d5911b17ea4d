// api/util/cache_service.go

package util

import (
	"context"

	"github.com/vidora-labs/vidora/api/db"
	"github.com/vidora-labs/vidora/api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return db.GetCachedUser(ctx, userID)
}

func (c *CacheService) SetUser(ctx context.Context, user model.User) error {
	return db.CacheUser(ctx, &user)
}

func (c *CacheService) DeleteUser(ctx context.Context, userID string) error {
	return db.DeleteCachedUser(ctx, userID)
}

func (c *CacheService) GetCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	return db.GetCachedCampaign(ctx, campaignID)
}

func (c *CacheService) SetCampaign(ctx context.Context, campaign model.Campaign) error {
	return db.CacheCampaign(ctx, &campaign)
}

func (c *CacheService) DeleteCampaign(ctx context.Context, campaignID string) error {
	return db.DeleteCachedCampaign(ctx, campaignID)
}
