package handler

import (
	"github.com/gin-gonic/gin"

	"fitclub/internal/dto"
	"fitclub/internal/service"
	"fitclub/pkg/response"
)

// CatalogHandler 课程目录 HTTP 处理器（场馆、类别、每周排期）
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListLocations 获取场馆列表
// GET /api/v1/locations
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	var req dto.LocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	locations, err := h.catalogSvc.ListLocations(c.Request.Context(), &req)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OKList(c, locations, len(locations))
}

// ListCategories 获取课程类别列表
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OKList(c, categories, len(categories))
}

// ListSchedules 获取每周排期
// GET /api/v1/schedules?location_id=&category_id=&day_of_week=
func (h *CatalogHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	schedules, err := h.catalogSvc.ListSchedules(c.Request.Context(), &req)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OKList(c, schedules, len(schedules))
}

// GetSchedule 获取排期详情
// GET /api/v1/schedules/:id
func (h *CatalogHandler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, codeValidation, "排期ID不能为空")
		return
	}

	schedule, err := h.catalogSvc.GetSchedule(c.Request.Context(), id)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OK(c, schedule)
}
