package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"fastcrew-api/internal/config"
	"fastcrew-api/internal/infrastructure/persistence/redis"
	"fastcrew-api/internal/interfaces/http/dto"
	"fastcrew-api/pkg/errors"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按用户与路径限流的中间件
//
// 限流器故障时放行，避免 Redis 抖动影响业务。未启用或
// limiter 为空时退化为空中间件。
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 100
	}

	return func(c *gin.Context) {
		userID := c.GetString(UserIDContextKey)
		if userID == "" {
			userID = "anonymous"
		}

		key := redis.BuildUserRateLimitKey(userID, c.Request.URL.Path)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerSecond, time.Second)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			dto.ErrorWith(c, errors.CodeTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
