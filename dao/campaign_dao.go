// api/dao/campaign_dao.go
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

type CampaignDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewCampaignDAO(driver neo4j.Driver, auditService audit.Service) *CampaignDAO {
	dao := &CampaignDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Campaign", zap.Error(err))
	}
	return dao
}

func (dao *CampaignDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_campaign_id IF NOT EXISTS
        FOR (c:Campaign) REQUIRE c.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on Campaign ID", zap.Error(err))
	}
	return err
}

func (dao *CampaignDAO) CreateCampaign(ctx context.Context, campaign model.Campaign) (string, error) {
	start := time.Now()
	logger.Info("Creating new campaign",
		zap.String("name", campaign.Name),
		zap.String("ownerID", campaign.OwnerID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $ownerID})
        CREATE (c:Campaign {id: $id})
        SET c += $props
        CREATE (u)-[:OWNS]->(c)
        RETURN c.id as id
        `
		params := map[string]interface{}{
			"id":      campaign.ID,
			"ownerID": campaign.OwnerID,
			"props": map[string]interface{}{
				"ownerID":   campaign.OwnerID,
				"name":      campaign.Name,
				"topic":     campaign.Topic,
				"cadence":   campaign.Cadence,
				"status":    campaign.Status,
				"createdAt": time.Now().Format(time.RFC3339),
				"updatedAt": time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			return result.Record().Values[0], nil
		}
		return nil, vidora_errors.ErrUserNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create campaign",
			zap.Error(err),
			zap.String("name", campaign.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	campaignID := fmt.Sprintf("%v", result)
	logger.Info("Campaign created successfully",
		zap.String("campaignID", campaignID),
		zap.Duration("duration", duration))

	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        campaign.OwnerID,
		Action:        "CREATE_CAMPAIGN",
		ResourceID:    campaignID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogEvent(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return campaignID, nil
}

func (dao *CampaignDAO) GetCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (c:Campaign {id: $id}) RETURN c`,
			map[string]interface{}{"id": campaignID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return campaignFromNode(node), nil
		}
		return nil, vidora_errors.ErrCampaignNotFound
	})

	if err != nil {
		return nil, err
	}
	return result.(*model.Campaign), nil
}

func (dao *CampaignDAO) UpdateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Campaign {id: $id})
        SET c.name = $name,
            c.topic = $topic,
            c.cadence = $cadence,
            c.status = $status,
            c.updatedAt = $updatedAt
        RETURN c.id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":        campaign.ID,
			"name":      campaign.Name,
			"topic":     campaign.Topic,
			"cadence":   campaign.Cadence,
			"status":    campaign.Status,
			"updatedAt": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrCampaignNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to update campaign",
			zap.Error(err),
			zap.String("campaignID", campaign.ID))
		return nil, err
	}

	return dao.GetCampaign(ctx, campaign.ID)
}

func (dao *CampaignDAO) DeleteCampaign(ctx context.Context, campaignID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (c:Campaign {id: $id}) DETACH DELETE c RETURN count(c)`,
			map[string]interface{}{"id": campaignID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() && result.Record().Values[0].(int64) == 0 {
			return nil, vidora_errors.ErrCampaignNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to delete campaign",
			zap.Error(err),
			zap.String("campaignID", campaignID))
		return err
	}
	return nil
}

func (dao *CampaignDAO) ListCampaigns(ctx context.Context, ownerID string, limit, offset int) ([]*model.Campaign, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (c:Campaign {ownerID: $ownerID})
			 RETURN c ORDER BY c.createdAt DESC
			 SKIP $offset LIMIT $limit`,
			map[string]interface{}{
				"ownerID": ownerID,
				"limit":   limit,
				"offset":  offset,
			},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		var campaigns []*model.Campaign
		for result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			campaigns = append(campaigns, campaignFromNode(node))
		}
		return campaigns, nil
	})

	if err != nil {
		return nil, err
	}
	return result.([]*model.Campaign), nil
}

func campaignFromNode(node neo4j.Node) *model.Campaign {
	props := node.Props
	campaign := &model.Campaign{
		ID:      getStringProp(props, "id"),
		OwnerID: getStringProp(props, "ownerID"),
		Name:    getStringProp(props, "name"),
		Topic:   getStringProp(props, "topic"),
		Cadence: getStringProp(props, "cadence"),
		Status:  getStringProp(props, "status"),
	}
	if t, err := time.Parse(time.RFC3339, getStringProp(props, "createdAt")); err == nil {
		campaign.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, getStringProp(props, "updatedAt")); err == nil {
		campaign.UpdatedAt = t
	}
	return campaign
}
