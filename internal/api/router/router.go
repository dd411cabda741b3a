package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Devign20164/DormieReact-sub000/config"
	"github.com/Devign20164/DormieReact-sub000/internal/api/handler"
	"github.com/Devign20164/DormieReact-sub000/internal/api/middleware"
	"github.com/Devign20164/DormieReact-sub000/pkg/jwt"
	"github.com/Devign20164/DormieReact-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			// 工单模块
			requests := authorized.Group("/requests")
			{
				requests.POST("", middleware.RateLimit(rdb, 10, time.Minute), h.Request.Create)
				requests.GET("", middleware.RoleAuth("admin", "staff"), h.Request.List)
				requests.GET("/my", h.Request.ListMine)
				requests.GET("/stats", middleware.RoleAuth("admin", "staff"), h.Request.Stats)
				requests.GET("/:id", h.Request.Get)
				requests.GET("/:id/history", h.Request.History)
				requests.PUT("/:id/status", middleware.RoleAuth("admin"), h.Request.Transition)
				requests.PUT("/:id/assign", middleware.RoleAuth("admin"), h.Request.Assign)
				requests.GET("/:id/candidates", middleware.RoleAuth("admin"), h.Request.Candidates)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListMine)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}
		}
	}

	return r
}
