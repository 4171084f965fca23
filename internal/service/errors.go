package service

import (
	"errors"
	"fmt"

	pkgerrors "fitclub/pkg/errors"
)

// ── 预约引擎业务错误 ──
// Handler 通过 errors.Is 逐一映射为独立的 HTTP 状态码与业务码

var (
	ErrScheduleNotFound    = errors.New("排期不存在")
	ErrReservationNotFound = errors.New("预约不存在")

	// ErrInvalidOccurrence 请求的日期不构成该排期的可预约场次
	ErrInvalidOccurrence = errors.New("无效的场次")
	ErrInvalidDate       = fmt.Errorf("%w: 日期格式应为 YYYY-MM-DD", ErrInvalidOccurrence)
	ErrWeekdayMismatch   = fmt.Errorf("%w: 日期与排期的星期不符", ErrInvalidOccurrence)
	ErrPastDate          = fmt.Errorf("%w: 不能预约已过去的日期", ErrInvalidOccurrence)
	ErrBeyondHorizon     = fmt.Errorf("%w: 超出可提前预约的天数", ErrInvalidOccurrence)
	ErrScheduleInactive  = fmt.Errorf("%w: 排期已停用", ErrInvalidOccurrence)

	ErrCapacityExceeded = errors.New("该场次名额已满")
	ErrAlreadyBooked    = errors.New("您已预约该场次")
	ErrForbidden        = errors.New("无权取消他人的预约")

	// ErrTransient 存储暂时不可用；调用方可退避后重试
	ErrTransient = errors.New("服务暂时不可用，请稍后重试")

	ErrNotificationNotFound = errors.New("通知不存在")
	ErrExportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// storeError 将仓储层的瞬时错误归入 ErrTransient，其余原样返回
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pkgerrors.ErrTransient) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
