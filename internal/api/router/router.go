package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitclub/config"
	"fitclub/internal/api/handler"
	"fitclub/internal/api/middleware"
	"fitclub/internal/api/validation"
	"fitclub/pkg/jwt"
	"fitclub/pkg/redis"
)

// 请求体上限：预约与策略接口的 JSON 都很小
const maxBodyBytes = 64 << 10

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := validation.Register(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 课程目录
		v1.GET("/locations", h.Catalog.ListLocations)
		v1.GET("/categories", h.Catalog.ListCategories)
		v1.GET("/schedules", h.Catalog.ListSchedules)
		v1.GET("/schedules/:id", h.Catalog.GetSchedule)

		// 场次
		occurrences := v1.Group("/occurrences")
		{
			occurrences.GET("", h.Occurrence.Browse)
			occurrences.GET("/:schedule_id/:date/availability", h.Occurrence.GetAvailability)
			occurrences.GET("/:schedule_id/:date/roster", middleware.StaffOnly(), h.Occurrence.GetRoster)
			occurrences.GET("/:schedule_id/:date/roster/export", middleware.StaffOnly(), h.Occurrence.ExportRoster)
		}

		// 预约
		reservations := v1.Group("/reservations")
		{
			reservations.POST("",
				middleware.RateLimit(rdb, cfg.RateLimit.BookingPerMinute, time.Minute),
				h.Reservation.Book,
			)
			reservations.GET("/me", h.Reservation.ListMine)
			reservations.GET("/me/calendar.ics", h.Reservation.Calendar)
			reservations.DELETE("/:id", h.Reservation.Cancel)
		}

		// 预约策略
		v1.GET("/booking-policy", h.BookingPolicy.GetPolicy)
		v1.PUT("/booking-policy", middleware.RoleAuth(jwt.RoleAdmin), h.BookingPolicy.UpdatePolicy)

		// 站内通知
		v1.GET("/notifications", h.Notification.List)
		v1.PUT("/notifications/:id/read", h.Notification.MarkRead)
	}

	return r, nil
}
