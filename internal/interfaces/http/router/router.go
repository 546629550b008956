// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fastcrew-api/internal/config"
	"fastcrew-api/internal/interfaces/http/handler"
	"fastcrew-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config

	health      *handler.HealthHandler
	chat        *handler.ChatHandler
	marketing   *handler.MarketingHandler
	rateLimiter middleware.RateLimiter
}

// New 创建新的路由器
func New(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	chatHandler *handler.ChatHandler,
	marketingHandler *handler.MarketingHandler,
	rateLimiter middleware.RateLimiter,
) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:      gin.New(),
		cfg:         cfg,
		health:      healthHandler,
		chat:        chatHandler,
		marketing:   marketingHandler,
		rateLimiter: rateLimiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/", r.health.Health)
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 业务端点统一挂身份与限流：限流 Key 依赖身份，先解析身份
	identity := middleware.Identity(r.cfg.Security.Identity.DefaultUserID)
	rateLimit := middleware.RateLimit(r.cfg.Security.RateLimit, r.rateLimiter)

	r.engine.POST("/chat", identity, rateLimit, r.chat.Chat)

	marketing := r.engine.Group("/marketing", identity, rateLimit)
	{
		marketing.POST("/research", r.marketing.Research)
		marketing.POST("/plan", r.marketing.Plan)
		marketing.POST("/plan/confirm", r.marketing.PlanConfirm)
		marketing.POST("/content", r.marketing.Content)
		marketing.GET("/artifacts/:kind/history", r.marketing.ArtifactHistory)
	}
}
