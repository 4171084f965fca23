package model

import "time"

// 预约状态：active → cancelled，cancelled 为终态
const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
)

// Reservation 预约台账表 — 对应 reservations
// 只追加与状态迁移，不物理删除；取消后的记录保留为审计数据
type Reservation struct {
	ReservationID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	UserID          string     `gorm:"type:varchar(64);not null"                      json:"user_id"`
	ScheduleID      string     `gorm:"type:uuid;not null"                             json:"schedule_id"`
	ReservationDate time.Time  `gorm:"type:date;not null"                             json:"reservation_date"`
	Status          string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy     *string    `gorm:"type:varchar(64)" json:"cancelled_by,omitempty"`

	// 关联
	Schedule *ClassSchedule `gorm:"foreignKey:ScheduleID;references:ScheduleID" json:"schedule,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// IsActive 是否占用名额
func (r *Reservation) IsActive() bool { return r.Status == ReservationActive }
