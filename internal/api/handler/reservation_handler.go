package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitclub/internal/dto"
	"fitclub/internal/service"
	"fitclub/pkg/response"
)

// ReservationHandler 预约 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
	calendarSvc    service.CalendarService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService, calendarSvc service.CalendarService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc, calendarSvc: calendarSvc}
}

// Book 预约场次
// POST /api/v1/reservations
func (h *ReservationHandler) Book(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.reservationSvc.Book(c.Request.Context(), userID, &req)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.Created(c, res)
}

// Cancel 取消预约；重复取消返回 changed=false
// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, codeValidation, "预约ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Cancel(c.Request.Context(), userID, role, id)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMine 我的有效预约
// GET /api/v1/reservations/me?date=
func (h *ReservationHandler) ListMine(c *gin.Context) {
	var req dto.MyReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeValidation, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.reservationSvc.ListForUser(c.Request.Context(), userID, req.Date)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Calendar 我的预约日历订阅
// GET /api/v1/reservations/me/calendar.ics
func (h *ReservationHandler) Calendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.UserFeed(c.Request.Context(), userID)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="reservations.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
