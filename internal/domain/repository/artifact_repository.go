// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"fastcrew-api/internal/domain/entity"
)

// ArtifactRepository 工件仓储
//
// Save 将 payload（已含 user_id）追加到 (kind, userID) 分区。
// GetLatest 返回分区内最新一条 payload；不存在时返回 (nil, nil)。
// History 返回分区内按写入顺序排列的全部 payload。
type ArtifactRepository interface {
	Save(ctx context.Context, kind entity.ArtifactKind, userID string, payload map[string]any) error
	GetLatest(ctx context.Context, kind entity.ArtifactKind, userID string) (map[string]any, error)
	History(ctx context.Context, kind entity.ArtifactKind, userID string) ([]map[string]any, error)
}
