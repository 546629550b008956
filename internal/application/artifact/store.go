// Package artifact 组合持久化后端：数据库为主，本地文件为兜底
package artifact

import (
	"context"
	"log/slog"

	"fastcrew-api/internal/domain/entity"
	"fastcrew-api/internal/domain/repository"
	"fastcrew-api/internal/infrastructure/persistence/fsstore"
	"fastcrew-api/internal/infrastructure/persistence/postgres"
	"fastcrew-api/pkg/logger"
	"fastcrew-api/pkg/metrics"
)

// Store 是 repository.ArtifactRepository 的组合实现
//
// 写入先走主后端，失败时降级写入兜底后端；读取在主后端出错
// 或没有数据时回退到兜底后端，对调用方保持同一套读写契约。
type Store struct {
	primary  repository.ArtifactRepository
	fallback repository.ArtifactRepository
}

var _ repository.ArtifactRepository = (*Store)(nil)

// NewStore 创建组合存储，primary 为 nil 时只使用文件兜底
func NewStore(primary *postgres.ArtifactRepository, fallback *fsstore.Store) *Store {
	s := &Store{fallback: fallback}
	if primary != nil {
		s.primary = primary
	}
	return s
}

func (s *Store) Save(ctx context.Context, kind entity.ArtifactKind, userID string, payload map[string]any) error {
	if s.primary != nil {
		err := s.primary.Save(ctx, kind, userID, payload)
		if err == nil {
			return nil
		}
		logger.Warn(ctx, "主存储写入失败，降级到文件存储",
			slog.String("kind", string(kind)),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		metrics.ArtifactPersistFallback.WithLabelValues(string(kind)).Inc()
	}
	return s.fallback.Save(ctx, kind, userID, payload)
}

func (s *Store) GetLatest(ctx context.Context, kind entity.ArtifactKind, userID string) (map[string]any, error) {
	if s.primary != nil {
		latest, err := s.primary.GetLatest(ctx, kind, userID)
		if err == nil && latest != nil {
			return latest, nil
		}
		if err != nil {
			logger.Warn(ctx, "主存储读取失败，回退到文件存储",
				slog.String("kind", string(kind)),
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
	return s.fallback.GetLatest(ctx, kind, userID)
}

func (s *Store) History(ctx context.Context, kind entity.ArtifactKind, userID string) ([]map[string]any, error) {
	if s.primary != nil {
		history, err := s.primary.History(ctx, kind, userID)
		if err == nil && len(history) > 0 {
			return history, nil
		}
		if err != nil {
			logger.Warn(ctx, "主存储历史读取失败，回退到文件存储",
				slog.String("kind", string(kind)),
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
	return s.fallback.History(ctx, kind, userID)
}
