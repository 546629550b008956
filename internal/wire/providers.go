// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"strings"

	"github.com/google/wire"

	"fastcrew-api/internal/application/artifact"
	"fastcrew-api/internal/application/chat"
	"fastcrew-api/internal/application/crew"
	"fastcrew-api/internal/application/marketing"
	"fastcrew-api/internal/config"
	"fastcrew-api/internal/domain/repository"
	"fastcrew-api/internal/infrastructure/llm"
	"fastcrew-api/internal/infrastructure/persistence/fsstore"
	"fastcrew-api/internal/infrastructure/persistence/postgres"
	"fastcrew-api/internal/infrastructure/persistence/redis"
	"fastcrew-api/internal/interfaces/http/handler"
	"fastcrew-api/internal/interfaces/http/middleware"
	"fastcrew-api/internal/interfaces/http/router"
	"fastcrew-api/pkg/logger"
)

// ProvidePostgresClient 创建主存储客户端
//
// 未配置时返回 nil，工件持久化完全落在文件存储上；
// 配置了但连不上则启动失败，避免误降级长期运行。
func ProvidePostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	if !cfg.Database.Postgres.Configured() {
		logger.Info(ctx, "postgres 未配置，工件持久化使用文件存储")
		return nil, func() {}, nil
	}

	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideArtifactRepository 创建主存储工件仓库，客户端缺省时返回 nil
func ProvideArtifactRepository(client *postgres.Client) *postgres.ArtifactRepository {
	if client == nil {
		return nil
	}
	return postgres.NewArtifactRepository(client)
}

// ProvideFallbackStore 创建文件回退存储
func ProvideFallbackStore(cfg *config.Config) *fsstore.Store {
	return fsstore.NewStore(cfg.Storage.DataDir)
}

// ProvideArtifactStore 组合主存储与回退存储
func ProvideArtifactStore(primary *postgres.ArtifactRepository, fallback *fsstore.Store) *artifact.Store {
	return artifact.NewStore(primary, fallback)
}

// ProvideRedisClient 创建 Redis 客户端，仅限流启用时连接
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Security.RateLimit.Enabled || strings.TrimSpace(cfg.Cache.Redis.Host) == "" {
		logger.Info(ctx, "redis 未启用，跳过限流")
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 创建限流器，Redis 缺省时返回 nil 接口
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// InfraSet 基础设施层
var InfraSet = wire.NewSet(
	ProvidePostgresClient,
	ProvideArtifactRepository,
	ProvideFallbackStore,
	ProvideArtifactStore,
	ProvideRedisClient,
	ProvideRateLimiter,
	llm.NewEinoFactory,
	wire.Bind(new(repository.ArtifactRepository), new(*artifact.Store)),
)

// AppSet 应用层
var AppSet = wire.NewSet(
	crew.NewRunner,
	marketing.NewService,
	chat.NewService,
	wire.Bind(new(marketing.Collaborator), new(*crew.Runner)),
	wire.Bind(new(chat.Collaborator), new(*crew.Runner)),
)

// HTTPSet 接口层
var HTTPSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewChatHandler,
	handler.NewMarketingHandler,
	router.New,
)
