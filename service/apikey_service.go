// api/service/apikey_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/dao"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
)

// IAPIKeyService defines the interface for API key operations
type IAPIKeyService interface {
	CreateKey(ctx context.Context, userID, label string, rateLimit int, expiresAt *time.Time) (*model.CreatedAPIKey, error)
	ListKeys(ctx context.Context, userID string) ([]*model.APIKey, error)
	DeactivateKey(ctx context.Context, userID, keyID string) error
	ResolveKey(ctx context.Context, secret string) (*model.APIKey, error)
}

type APIKeyService struct {
	apiKeyDAO *dao.APIKeyDAO
}

var _ IAPIKeyService = &APIKeyService{}

func NewAPIKeyService(apiKeyDAO *dao.APIKeyDAO) *APIKeyService {
	return &APIKeyService{apiKeyDAO: apiKeyDAO}
}

// CreateKey generates a fresh secret and persists only its hash. The raw
// secret appears in the response once and is never recoverable.
func (s *APIKeyService) CreateKey(ctx context.Context, userID, label string, rateLimit int, expiresAt *time.Time) (*model.CreatedAPIKey, error) {
	secret, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, vidora_errors.ErrInternalServer
	}

	key := model.APIKey{
		UserID:    userID,
		KeyHash:   auth.HashAPIKey(secret),
		KeyPrefix: auth.KeyPrefix(secret),
		Label:     label,
		RateLimit: rateLimit,
		IsActive:  true,
		ExpiresAt: expiresAt,
	}

	keyID, err := s.apiKeyDAO.CreateAPIKey(ctx, key)
	if err != nil {
		return nil, err
	}
	key.ID = keyID
	key.CreatedAt = time.Now()

	return &model.CreatedAPIKey{APIKey: key, Secret: secret}, nil
}

func (s *APIKeyService) ListKeys(ctx context.Context, userID string) ([]*model.APIKey, error) {
	return s.apiKeyDAO.ListAPIKeys(ctx, userID)
}

func (s *APIKeyService) DeactivateKey(ctx context.Context, userID, keyID string) error {
	return s.apiKeyDAO.DeactivateAPIKey(ctx, userID, keyID)
}

// ResolveKey authenticates a presented secret: exact-hash lookup, then
// active and expiry checks. On success the last-used timestamp is
// recorded fire-and-forget; that write never blocks or fails the
// request.
func (s *APIKeyService) ResolveKey(ctx context.Context, secret string) (*model.APIKey, error) {
	key, err := s.apiKeyDAO.GetAPIKeyByHash(ctx, auth.HashAPIKey(secret))
	if err != nil {
		return nil, err
	}
	if !key.IsActive {
		return nil, vidora_errors.ErrAPIKeyInactive
	}
	if key.Expired(time.Now()) {
		return nil, vidora_errors.ErrAPIKeyExpired
	}

	go func(keyID string) {
		if err := s.apiKeyDAO.TouchAPIKey(context.Background(), keyID); err != nil {
			logger.Debug("Failed to record API key usage", zap.Error(err), zap.String("keyID", keyID))
		}
	}(key.ID)

	return key, nil
}
