package model

// Location 场馆（门店）— 对应 locations
// 同一连锁品牌下按城市分组展示；营业时间仅供展示，不参与预约校验
type Location struct {
	LocationID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	City         string `gorm:"type:varchar(50);not null;index"                json:"city"`
	Address      string `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	Phone        string `gorm:"type:varchar(32)"                               json:"phone,omitempty"`
	OpeningHours string `gorm:"type:varchar(100)"                              json:"opening_hours,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

func (Location) TableName() string { return "locations" }
