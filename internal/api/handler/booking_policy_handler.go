package handler

import (
	"github.com/gin-gonic/gin"

	"fitclub/internal/dto"
	"fitclub/internal/service"
	"fitclub/pkg/response"
)

// BookingPolicyHandler 预约策略 HTTP 处理器
type BookingPolicyHandler struct {
	policySvc service.BookingPolicyService
}

// NewBookingPolicyHandler 创建 BookingPolicyHandler
func NewBookingPolicyHandler(policySvc service.BookingPolicyService) *BookingPolicyHandler {
	return &BookingPolicyHandler{policySvc: policySvc}
}

// GetPolicy 获取预约策略
// GET /api/v1/booking-policy
func (h *BookingPolicyHandler) GetPolicy(c *gin.Context) {
	policy, err := h.policySvc.Get(c.Request.Context())
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OK(c, policy)
}

// UpdatePolicy 更新预约策略（管理员）
// PUT /api/v1/booking-policy
func (h *BookingPolicyHandler) UpdatePolicy(c *gin.Context) {
	var req dto.UpdateBookingPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	policy, err := h.policySvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OK(c, policy)
}
