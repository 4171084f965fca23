package model

// BookingPolicy 预约策略表 — 对应 booking_policy（单行强类型）
type BookingPolicy struct {
	Singleton      bool `gorm:"primaryKey;default:true" json:"-"`
	MaxAdvanceDays int  `gorm:"not null;default:14"     json:"max_advance_days"`
	BaseModel
}

// TableName 指定表名
func (BookingPolicy) TableName() string { return "booking_policy" }

// DefaultMaxAdvanceDays 策略行缺失时的兜底值
const DefaultMaxAdvanceDays = 14
