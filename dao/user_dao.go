// api/dao/user_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/audit"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
)

type UserDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewUserDAO(driver neo4j.Driver, auditService audit.Service) *UserDAO {
	dao := &UserDAO{Driver: driver, AuditService: auditService}
	// Ensure unique constraints on User ID and email
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for User", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraints on User")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		queries := []string{
			`CREATE CONSTRAINT unique_user_id IF NOT EXISTS
			 FOR (u:User) REQUIRE u.id IS UNIQUE`,
			`CREATE CONSTRAINT unique_user_email IF NOT EXISTS
			 FOR (u:User) REQUIRE u.email IS UNIQUE`,
		}
		for _, query := range queries {
			if _, err := transaction.Run(query, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraints on User", zap.Error(err))
		return err
	}

	return nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (string, error) {
	start := time.Now()
	logger.Info("Creating new user", zap.String("email", user.Email))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		existing, err := transaction.Run(
			`MATCH (u:User {email: $email}) RETURN u.id LIMIT 1`,
			map[string]interface{}{"email": user.Email},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, vidora_errors.ErrEmailTaken
		}

		query := `
        CREATE (u:User {id: $id})
        SET u += $props
        RETURN u.id as id
        `
		params := map[string]interface{}{
			"id": user.ID,
			"props": map[string]interface{}{
				"name":         user.Name,
				"email":        user.Email,
				"passwordHash": user.PasswordHash,
				"plan":         user.Plan,
				"quotaLimit":   user.QuotaLimit,
				"quotaUsed":    user.QuotaUsed,
				"createdAt":    time.Now().Format(time.RFC3339),
				"updatedAt":    time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, vidora_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.Duration("duration", duration))
		return "", err
	}

	userID := fmt.Sprintf("%v", result)
	logger.Info("User created successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))

	// Audit trail
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        "CREATE_USER",
		ResourceID:    userID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogEvent(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return userID, nil
}

func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {id: $id}) RETURN u`,
			map[string]interface{}{"id": userID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return userFromNode(node), nil
		}
		return nil, vidora_errors.ErrUserNotFound
	})

	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {email: $email}) RETURN u`,
			map[string]interface{}{"email": email},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return userFromNode(node), nil
		}
		return nil, vidora_errors.ErrUserNotFound
	})

	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

func (dao *UserDAO) UpdateUser(ctx context.Context, user model.User) (*model.User, error) {
	start := time.Now()
	logger.Info("Updating user", zap.String("userID", user.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $id})
        SET u.name = $name,
            u.plan = $plan,
            u.updatedAt = $updatedAt
        RETURN u.id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":        user.ID,
			"name":      user.Name,
			"plan":      user.Plan,
			"updatedAt": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrUserNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update user",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	return dao.GetUser(ctx, user.ID)
}

// IncrementQuotaUsage bumps quota_used by one in a single write. The
// boundary check happens before this call; the check-then-increment pair
// is not transactional across requests, which keeps accuracy best-effort
// under high concurrency (the accepted contract for this counter).
func (dao *UserDAO) IncrementQuotaUsage(ctx context.Context, userID string) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {id: $id})
			 SET u.quotaUsed = coalesce(u.quotaUsed, 0) + 1,
			     u.updatedAt = $updatedAt
			 RETURN u.quotaUsed`,
			map[string]interface{}{
				"id":        userID,
				"updatedAt": time.Now().Format(time.RFC3339),
			},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			return result.Record().Values[0], nil
		}
		return nil, vidora_errors.ErrUserNotFound
	})

	if err != nil {
		logger.Error("Failed to increment quota usage",
			zap.Error(err),
			zap.String("userID", userID))
		return 0, err
	}

	used := int(result.(int64))
	logger.Debug("Quota usage incremented",
		zap.String("userID", userID),
		zap.Int("quotaUsed", used))
	return used, nil
}

// ResetQuota zeroes quota_used and applies the renewed plan's limit.
// Driven by the billing renewal webhook, never by this service's clock.
func (dao *UserDAO) ResetQuota(ctx context.Context, userID, plan string, quotaLimit int) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {id: $id})
			 SET u.quotaUsed = 0,
			     u.quotaLimit = $quotaLimit,
			     u.plan = $plan,
			     u.updatedAt = $updatedAt
			 RETURN u.id`,
			map[string]interface{}{
				"id":         userID,
				"quotaLimit": quotaLimit,
				"plan":       plan,
				"updatedAt":  time.Now().Format(time.RFC3339),
			},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrUserNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to reset quota",
			zap.Error(err),
			zap.String("userID", userID))
		return err
	}

	logger.Info("Quota reset",
		zap.String("userID", userID),
		zap.String("plan", plan),
		zap.Int("quotaLimit", quotaLimit))

	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        "QUOTA_RESET",
		ResourceID:    userID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogEvent(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return nil
}

func (dao *UserDAO) DeleteUser(ctx context.Context, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {id: $id}) DETACH DELETE u RETURN count(u)`,
			map[string]interface{}{"id": userID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() && result.Record().Values[0].(int64) == 0 {
			return nil, vidora_errors.ErrUserNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to delete user",
			zap.Error(err),
			zap.String("userID", userID))
		return err
	}
	return nil
}

func userFromNode(node neo4j.Node) *model.User {
	props := node.Props
	user := &model.User{
		ID:           getStringProp(props, "id"),
		Name:         getStringProp(props, "name"),
		Email:        getStringProp(props, "email"),
		PasswordHash: getStringProp(props, "passwordHash"),
		Plan:         getStringProp(props, "plan"),
		QuotaLimit:   getIntProp(props, "quotaLimit"),
		QuotaUsed:    getIntProp(props, "quotaUsed"),
	}
	if t, err := time.Parse(time.RFC3339, getStringProp(props, "createdAt")); err == nil {
		user.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, getStringProp(props, "updatedAt")); err == nil {
		user.UpdatedAt = t
	}
	return user
}
