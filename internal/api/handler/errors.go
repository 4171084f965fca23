package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fitclub/internal/service"
	"fitclub/pkg/response"
)

// 业务错误码
const (
	codeValidation          = 10001
	codeScheduleNotFound    = 20001
	codeReservationNotFound = 20002
	codeInvalidOccurrence   = 20003
	codeCapacityExceeded    = 20004
	codeAlreadyBooked       = 20005
	codeForbidden           = 20006
	codeTransient           = 20007
	codeNotificationMissing = 20101
)

// handleReservationError 将预约引擎错误映射为 HTTP 响应
// 场次、预约、余位相关接口共用
func handleReservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, codeScheduleNotFound, "排期不存在")
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, codeReservationNotFound, "预约不存在")
	case errors.Is(err, service.ErrInvalidOccurrence):
		response.Unprocessable(c, codeInvalidOccurrence, "无效的场次", err.Error())
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, codeCapacityExceeded, "该场次名额已满")
	case errors.Is(err, service.ErrAlreadyBooked):
		response.Conflict(c, codeAlreadyBooked, "您已预约该场次")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, codeForbidden, "无权操作他人的预约")
	case errors.Is(err, service.ErrTransient):
		response.ServiceUnavailable(c, codeTransient, "服务暂时不可用，请稍后重试")
	default:
		response.InternalError(c)
	}
}
