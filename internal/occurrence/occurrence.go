// Package occurrence 场次（排期 × 日历日期）的纯值类型与日期运算。
//
// 场次不落库：由每周排期与查询日期实时推导。日期一律以“UTC 零点”表示民用日期，
// 星期按 ISO 8601 编号（1=周一 … 7=周日），与区域设置的“每周首日”无关。
package occurrence

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout 民用日期的文本格式
const DateLayout = "2006-01-02"

// ErrInvalidDate 日期文本无法解析
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")

// Occurrence 某排期在某一天的一次开课；当且仅当两项均相等时为同一场次
type Occurrence struct {
	ScheduleID string
	Date       time.Time
}

// New 构造场次，日期被规范为民用日期
func New(scheduleID string, date time.Time) Occurrence {
	return Occurrence{ScheduleID: scheduleID, Date: Civil(date)}
}

// Key 场次的稳定字符串标识，用于加锁与日志
func (o Occurrence) Key() string {
	return o.ScheduleID + ":" + o.Date.Format(DateLayout)
}

// String 实现 fmt.Stringer
func (o Occurrence) String() string { return o.Key() }

// Weekday 场次日期的 ISO 星期
func (o Occurrence) Weekday() int { return ISOWeekday(o.Date) }

// ParseDate 解析 YYYY-MM-DD 为民用日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Civil 取 t 在其自身时区下的年月日，返回该日期的 UTC 零点
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today 业务时区下的今天
func Today(now time.Time, loc *time.Location) time.Time {
	return Civil(now.In(loc))
}

// ISOWeekday 1=周一 … 7=周日
func ISOWeekday(date time.Time) int {
	wd := int(Civil(date).Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MatchesWeekday 日期是否落在排期的星期上
func MatchesWeekday(dayOfWeek int, date time.Time) bool {
	return ISOWeekday(date) == dayOfWeek
}

// DaysBetween from 到 to 相差的整天数（to 早于 from 时为负）
func DaysBetween(from, to time.Time) int {
	return int(Civil(to).Sub(Civil(from)).Hours() / 24)
}

// StartsAt 场次在业务时区下的开始时刻；startTime 形如 "18:30" 或 "18:30:00"
func StartsAt(date time.Time, startTime string, loc *time.Location) (time.Time, error) {
	var h, m int
	if _, err := fmt.Sscanf(startTime, "%d:%d", &h, &m); err != nil {
		return time.Time{}, fmt.Errorf("开始时间格式无效 %q: %w", startTime, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("开始时间越界 %q", startTime)
	}
	d := Civil(date)
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc), nil
}
