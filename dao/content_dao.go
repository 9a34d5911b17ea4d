// api/dao/content_dao.go
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

type ContentDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewContentDAO(driver neo4j.Driver, auditService audit.Service) *ContentDAO {
	dao := &ContentDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for ContentItem", zap.Error(err))
	}
	return dao
}

func (dao *ContentDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		queries := []string{
			`CREATE CONSTRAINT unique_content_id IF NOT EXISTS
			 FOR (c:ContentItem) REQUIRE c.id IS UNIQUE`,
			`CREATE CONSTRAINT unique_renderjob_id IF NOT EXISTS
			 FOR (j:RenderJob) REQUIRE j.id IS UNIQUE`,
		}
		for _, query := range queries {
			if _, err := transaction.Run(query, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraints on ContentItem", zap.Error(err))
	}
	return err
}

func (dao *ContentDAO) CreateContent(ctx context.Context, content model.ContentItem) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if content.ID == "" {
		content.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Campaign {id: $campaignID})
        CREATE (i:ContentItem {id: $id})
        SET i += $props
        CREATE (c)-[:CONTAINS]->(i)
        RETURN i.id as id
        `
		params := map[string]interface{}{
			"id":         content.ID,
			"campaignID": content.CampaignID,
			"props": map[string]interface{}{
				"campaignID": content.CampaignID,
				"ownerID":    content.OwnerID,
				"title":      content.Title,
				"script":     content.Script,
				"status":     content.Status,
				"videoURL":   content.VideoURL,
				"createdAt":  time.Now().Format(time.RFC3339),
				"updatedAt":  time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			return result.Record().Values[0], nil
		}
		return nil, vidora_errors.ErrCampaignNotFound
	})

	if err != nil {
		logger.Error("Failed to create content item",
			zap.Error(err),
			zap.String("campaignID", content.CampaignID))
		return "", err
	}

	contentID := fmt.Sprintf("%v", result)
	logger.Info("Content item created",
		zap.String("contentID", contentID),
		zap.String("campaignID", content.CampaignID))
	return contentID, nil
}

func (dao *ContentDAO) GetContent(ctx context.Context, contentID string) (*model.ContentItem, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (i:ContentItem {id: $id}) RETURN i`,
			map[string]interface{}{"id": contentID},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return contentFromNode(node), nil
		}
		return nil, vidora_errors.ErrContentNotFound
	})

	if err != nil {
		return nil, err
	}
	return result.(*model.ContentItem), nil
}

func (dao *ContentDAO) ListContent(ctx context.Context, campaignID string, limit, offset int) ([]*model.ContentItem, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (c:Campaign {id: $campaignID})-[:CONTAINS]->(i:ContentItem)
			 RETURN i ORDER BY i.createdAt DESC
			 SKIP $offset LIMIT $limit`,
			map[string]interface{}{
				"campaignID": campaignID,
				"limit":      limit,
				"offset":     offset,
			},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		var items []*model.ContentItem
		for result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			items = append(items, contentFromNode(node))
		}
		return items, nil
	})

	if err != nil {
		return nil, err
	}
	return result.([]*model.ContentItem), nil
}

func (dao *ContentDAO) UpdateContentStatus(ctx context.Context, contentID, status, videoURL string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		result, err := transaction.Run(
			`MATCH (i:ContentItem {id: $id})
			 SET i.status = $status,
			     i.videoURL = $videoURL,
			     i.updatedAt = $updatedAt
			 RETURN i.id`,
			map[string]interface{}{
				"id":        contentID,
				"status":    status,
				"videoURL":  videoURL,
				"updatedAt": time.Now().Format(time.RFC3339),
			},
		)
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrContentNotFound
		}
		return nil, nil
	})
	return err
}

// CreateRenderJob persists the queued generation run. The model-provider
// call itself happens downstream of the event bus, outside this service.
func (dao *ContentDAO) CreateRenderJob(ctx context.Context, job model.RenderJob) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE (j:RenderJob {id: $id})
        SET j += $props
        RETURN j.id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id": job.ID,
			"props": map[string]interface{}{
				"ownerID":   job.OwnerID,
				"contentID": job.ContentID,
				"kind":      job.Kind,
				"status":    job.Status,
				"payload":   job.Payload,
				"createdAt": time.Now().Format(time.RFC3339),
			},
		})
		if err != nil {
			return nil, vidora_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, vidora_errors.ErrInternalServer
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to create render job",
			zap.Error(err),
			zap.String("ownerID", job.OwnerID),
			zap.String("kind", job.Kind))
		return "", err
	}

	logger.Info("Render job created",
		zap.String("jobID", job.ID),
		zap.String("kind", job.Kind),
		zap.String("ownerID", job.OwnerID))

	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        job.OwnerID,
		Action:        "CREATE_RENDER_JOB",
		ResourceID:    job.ID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogEvent(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return job.ID, nil
}

func contentFromNode(node neo4j.Node) *model.ContentItem {
	props := node.Props
	content := &model.ContentItem{
		ID:         getStringProp(props, "id"),
		CampaignID: getStringProp(props, "campaignID"),
		OwnerID:    getStringProp(props, "ownerID"),
		Title:      getStringProp(props, "title"),
		Script:     getStringProp(props, "script"),
		Status:     getStringProp(props, "status"),
		VideoURL:   getStringProp(props, "videoURL"),
	}
	if t, err := time.Parse(time.RFC3339, getStringProp(props, "createdAt")); err == nil {
		content.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, getStringProp(props, "updatedAt")); err == nil {
		content.UpdatedAt = t
	}
	return content
}
