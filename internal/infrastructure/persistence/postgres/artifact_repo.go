package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"fastcrew-api/internal/domain/entity"
)

// ArtifactRepository 工件主存储
type ArtifactRepository struct {
	client *Client
}

// NewArtifactRepository 创建工件仓储
func NewArtifactRepository(client *Client) *ArtifactRepository {
	return &ArtifactRepository{client: client}
}

// Save 追加一条工件记录，payload 会合并 user_id 字段
func (r *ArtifactRepository) Save(ctx context.Context, kind entity.ArtifactKind, userID string, payload map[string]any) error {
	ctx, span := tracer.Start(ctx, "postgres.ArtifactRepository.Save")
	defer span.End()

	raw, err := json.Marshal(mergeUserID(userID, payload))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal artifact payload: %w", err)
	}

	art := &entity.MarketingArtifact{
		UserID:  userID,
		Kind:    kind,
		Payload: raw,
	}
	if err := r.client.db.WithContext(ctx).Create(art).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create marketing artifact: %w", err)
	}
	return nil
}

// GetLatest 返回分区内 created_at 最新的一条 payload；无记录时返回 (nil, nil)
func (r *ArtifactRepository) GetLatest(ctx context.Context, kind entity.ArtifactKind, userID string) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArtifactRepository.GetLatest")
	defer span.End()

	var art entity.MarketingArtifact
	err := r.client.db.WithContext(ctx).
		Where("kind = ? AND user_id = ?", kind, userID).
		Order("created_at DESC").
		First(&art).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get latest marketing artifact: %w", err)
	}

	return decodePayload(&art)
}

// History 返回分区内按写入顺序排列的全部 payload
func (r *ArtifactRepository) History(ctx context.Context, kind entity.ArtifactKind, userID string) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArtifactRepository.History")
	defer span.End()

	var arts []*entity.MarketingArtifact
	err := r.client.db.WithContext(ctx).
		Where("kind = ? AND user_id = ?", kind, userID).
		Order("created_at ASC").
		Find(&arts).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list marketing artifacts: %w", err)
	}

	history := make([]map[string]any, 0, len(arts))
	for _, art := range arts {
		payload, err := decodePayload(art)
		if err != nil {
			return nil, err
		}
		history = append(history, payload)
	}
	return history, nil
}

// decodePayload 反序列化 payload 列
func decodePayload(art *entity.MarketingArtifact) (map[string]any, error) {
	payload := make(map[string]any)
	if err := json.Unmarshal(art.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact payload: %w", err)
	}
	return payload, nil
}

// mergeUserID 合并 user_id 到 payload 副本
func mergeUserID(userID string, payload map[string]any) map[string]any {
	merged := make(map[string]any, len(payload)+1)
	merged["user_id"] = userID
	for k, v := range payload {
		merged[k] = v
	}
	return merged
}
