// api/dao/apikey_dao.go
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/audit"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
	helper_util "github.com/vidora-labs/vidora/api/util/helper"
)

type APIKeyDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewAPIKeyDAO(driver neo4j.Driver, auditService audit.Service) *APIKeyDAO {
	dao := &APIKeyDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for APIKey", zap.Error(err))
	}
	return dao
}

func (dao *APIKeyDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_apikey_hash IF NOT EXISTS
        FOR (k:APIKey) REQUIRE k.keyHash IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on APIKey hash", zap.Error(err))
	}
	return err
}

func (dao *APIKeyDAO) CreateAPIKey(ctx context.Context, key model.APIKey) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if key.ID == "" {
		key.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $userID})
        CREATE (k:APIKey {id: $id})
        SET k += $props
        CREATE (u)-[:OWNS]->(k)
        RETURN k.id
        `
		props := map[string]interface{}{
			"userID":    key.UserID,
			"keyHash":   key.KeyHash,
			"keyPrefix": key.KeyPrefix,
			"label":     key.Label,
			"rateLimit": key.RateLimit,
			"isActive":  key.IsActive,
			"createdAt": time.Now().Format(time.RFC3339),
		}
		if key.ExpiresAt != nil {
			props["expiresAt"] = key.ExpiresAt.Format(time.RFC3339)
		}

		result, err := transaction.Run(query, map[string]interface{}{
			"id":     key.ID,
			"userID": key.UserID,
			"props":  props,
		})
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrUserNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to create API key",
			zap.Error(err),
			zap.String("userID", key.UserID))
		return "", err
	}

	logger.Info("API key created",
		zap.String("keyID", key.ID),
		zap.String("userID", key.UserID),
		zap.String("prefix", key.KeyPrefix))

	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        key.UserID,
		Action:        "CREATE_API_KEY",
		ResourceID:    key.ID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogEvent(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return key.ID, nil
}

// GetAPIKeyByHash resolves a key record by the exact hash of the
// presented secret.
func (dao *APIKeyDAO) GetAPIKeyByHash(ctx context.Context, keyHash string) (*model.APIKey, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (k:APIKey {keyHash: $keyHash}) RETURN k`,
			map[string]interface{}{"keyHash": keyHash},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return apiKeyFromNode(node), nil
		}
		return nil, vidora_errors.ErrAPIKeyNotFound
	})

	if err != nil {
		return nil, err
	}
	return result.(*model.APIKey), nil
}

func (dao *APIKeyDAO) ListAPIKeys(ctx context.Context, userID string) ([]*model.APIKey, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {id: $userID})-[:OWNS]->(k:APIKey)
			 RETURN k ORDER BY k.createdAt DESC`,
			map[string]interface{}{"userID": userID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		var keys []*model.APIKey
		for result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			keys = append(keys, apiKeyFromNode(node))
		}
		return keys, nil
	})

	if err != nil {
		return nil, err
	}
	return result.([]*model.APIKey), nil
}

// DeactivateAPIKey marks the key inactive rather than deleting it, so
// the record stays auditable.
func (dao *APIKeyDAO) DeactivateAPIKey(ctx context.Context, userID, keyID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (u:User {id: $userID})-[:OWNS]->(k:APIKey {id: $keyID})
			 SET k.isActive = false
			 RETURN k.id`,
			map[string]interface{}{"userID": userID, "keyID": keyID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrAPIKeyNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to deactivate API key",
			zap.Error(err),
			zap.String("keyID", keyID))
		return err
	}

	logger.Info("API key deactivated", zap.String("keyID", keyID))
	return nil
}

// TouchAPIKey records the last-used timestamp. Callers invoke it
// fire-and-forget; a failure here must never fail the request.
func (dao *APIKeyDAO) TouchAPIKey(ctx context.Context, keyID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		_, err := transaction.Run(
			`MATCH (k:APIKey {id: $keyID}) SET k.lastUsed = $lastUsed`,
			map[string]interface{}{
				"keyID":    keyID,
				"lastUsed": time.Now().Format(time.RFC3339),
			},
		)
		return nil, err
	})
	return err
}

func apiKeyFromNode(node neo4j.Node) *model.APIKey {
	props := node.Props
	key := &model.APIKey{
		ID:        getStringProp(props, "id"),
		UserID:    getStringProp(props, "userID"),
		KeyHash:   getStringProp(props, "keyHash"),
		KeyPrefix: getStringProp(props, "keyPrefix"),
		Label:     getStringProp(props, "label"),
		RateLimit: getIntProp(props, "rateLimit"),
		IsActive:  getBoolProp(props, "isActive"),
	}
	if t, err := helper_util.ParseTime(getStringProp(props, "createdAt")); err == nil {
		key.CreatedAt = t
	}
	if t, err := helper_util.ParseNullableTime(props["expiresAt"]); err == nil {
		key.ExpiresAt = t
	}
	if t, err := helper_util.ParseNullableTime(props["lastUsed"]); err == nil {
		key.LastUsed = t
	}
	return key
}
