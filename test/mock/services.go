// test/mock/services.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vidora-labs/vidora/api/model"
)

// MockQuotaService is a mock implementation of service.IQuotaService
type MockQuotaService struct {
	mock.Mock
}

func (m *MockQuotaService) Check(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockQuotaService) Increment(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockQuotaService) CheckAndIncrement(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockQuotaService) Status(ctx context.Context, userID string) (*model.QuotaStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuotaStatus), args.Error(1)
}

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, password, plan string, quotaLimit int) (*model.User, error) {
	args := m.Called(ctx, name, email, password, plan, quotaLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, user model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockContentService is a mock implementation of service.IContentService
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) CreateContent(ctx context.Context, content model.ContentItem) (*model.ContentItem, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentItem), args.Error(1)
}

func (m *MockContentService) GetContent(ctx context.Context, contentID string) (*model.ContentItem, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentItem), args.Error(1)
}

func (m *MockContentService) ListContent(ctx context.Context, campaignID string, limit, offset int) ([]*model.ContentItem, error) {
	args := m.Called(ctx, campaignID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ContentItem), args.Error(1)
}

func (m *MockContentService) RequestRender(ctx context.Context, ownerID, kind string, req model.RenderRequest) (*model.RenderJob, error) {
	args := m.Called(ctx, ownerID, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RenderJob), args.Error(1)
}

// MockAPIKeyService is a mock implementation of service.IAPIKeyService
type MockAPIKeyService struct {
	mock.Mock
}

func (m *MockAPIKeyService) CreateKey(ctx context.Context, userID, label string, rateLimit int, expiresAt *time.Time) (*model.CreatedAPIKey, error) {
	args := m.Called(ctx, userID, label, rateLimit, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreatedAPIKey), args.Error(1)
}

func (m *MockAPIKeyService) ListKeys(ctx context.Context, userID string) ([]*model.APIKey, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) DeactivateKey(ctx context.Context, userID, keyID string) error {
	args := m.Called(ctx, userID, keyID)
	return args.Error(0)
}

func (m *MockAPIKeyService) ResolveKey(ctx context.Context, secret string) (*model.APIKey, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

// MockBillingService is a mock implementation of service.IBillingService
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) Plans() []model.Plan {
	args := m.Called()
	return args.Get(0).([]model.Plan)
}

func (m *MockBillingService) ProcessRenewal(ctx context.Context, event model.RenewalEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockCampaignService is a mock implementation of service.ICampaignService
type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) CreateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error) {
	args := m.Called(ctx, campaign)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignService) UpdateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error) {
	args := m.Called(ctx, campaign)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignService) DeleteCampaign(ctx context.Context, campaignID, requesterID string) error {
	args := m.Called(ctx, campaignID, requesterID)
	return args.Error(0)
}

func (m *MockCampaignService) GetCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignService) ListCampaigns(ctx context.Context, ownerID string, limit, offset int) ([]*model.Campaign, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Campaign), args.Error(1)
}
