// api/service/user_service.go
package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidora-labs/vidora/api/dao"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	"github.com/vidora-labs/vidora/api/util"
)

// IUserService defines the interface for user operations
type IUserService interface {
	Register(ctx context.Context, name, email, password, plan string, quotaLimit int) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateUser(ctx context.Context, user model.User) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// UserService handles business logic for user operations
type UserService struct {
	userDAO         *dao.UserDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IUserService = &UserService{}

// NewUserService creates a new instance of UserService
func NewUserService(userDAO *dao.UserDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *UserService {
	service := &UserService{
		userDAO:         userDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe("user.created", service.handleUserCreated)
	eventBus.Subscribe("quota.exceeded", service.handleQuotaExhausted)

	return service
}

func (s *UserService) handleQuotaExhausted(ctx context.Context, event util.Event) error {
	userID := event.Payload.(string)

	if err := s.notificationSvc.NotifyQuotaExhausted(ctx, userID); err != nil {
		return err
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.notificationSvc.SendEmail(ctx, user.Email,
		"You've used up this month's render quota",
		"Upgrade your plan to keep rendering: /billing/plans")
}

func (s *UserService) handleUserCreated(ctx context.Context, event util.Event) error {
	user := event.Payload.(model.User)
	logger.Info("User created event received", zap.String("userID", user.ID))

	if err := s.notificationSvc.NotifyUserChange(ctx, "created", user); err != nil {
		logger.Warn("Failed to send user creation notification", zap.Error(err), zap.String("userID", user.ID))
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, name, email, password, plan string, quotaLimit int) (*model.User, error) {
	user := model.User{
		Name:       name,
		Email:      email,
		Plan:       plan,
		QuotaLimit: quotaLimit,
		QuotaUsed:  0,
	}
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, vidora_errors.ErrInvalidUserData
	}
	if len(password) < 8 {
		return nil, vidora_errors.ErrInvalidUserData
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, vidora_errors.ErrInternalServer
	}
	user.PasswordHash = string(hash)

	userID, err := s.userDAO.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	created, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, *created); err != nil {
		logger.Warn("Failed to cache new user", zap.Error(err), zap.String("userID", userID))
	}
	s.eventBus.Publish(ctx, "user.created", *created)

	return created, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userDAO.GetUserByEmail(ctx, email)
	if err != nil {
		if err == vidora_errors.ErrUserNotFound {
			return nil, vidora_errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Failed login attempt", zap.String("email", email))
		return nil, vidora_errors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	cached, err := s.cacheService.GetUser(ctx, userID)
	if err != nil {
		logger.Warn("User cache lookup failed", zap.Error(err), zap.String("userID", userID))
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user model.User) (*model.User, error) {
	updated, err := s.userDAO.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	// Cached quota state is stale after any user write
	if err := s.cacheService.DeleteUser(ctx, user.ID); err != nil {
		logger.Warn("Failed to invalidate user cache", zap.Error(err), zap.String("userID", user.ID))
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userDAO.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
		logger.Warn("Failed to invalidate user cache", zap.Error(err), zap.String("userID", userID))
	}
	return nil
}
