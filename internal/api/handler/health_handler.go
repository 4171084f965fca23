package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitclub/internal/dto"
)

// Pinger 可探活的依赖（数据库、Redis）
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 健康检查
type HealthHandler struct {
	db    Pinger
	redis Pinger // nil 表示未启用 Redis
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Check 数据库不可达时返回 503；Redis 仅降级标记
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		resp.Redis = "up"
		if err := h.redis.Ping(ctx); err != nil {
			resp.Redis = "down"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}
	}

	c.JSON(status, resp)
}
