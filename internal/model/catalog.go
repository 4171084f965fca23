package model

// Category 课程类别表 — 对应 categories（瑜伽、搏击、单车……）
type Category struct {
	CategoryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	Name       string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	SortOrder  int    `gorm:"not null;default:0"                             json:"sort_order"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// Instructor 教练表 — 对应 instructors
type Instructor struct {
	InstructorID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instructor_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Bio          string `gorm:"type:text"                                      json:"bio,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Instructor) TableName() string { return "instructors" }

// ClassTemplate 课程模板表 — 对应 class_templates
// 由后台运营维护，预约引擎只读
type ClassTemplate struct {
	TemplateID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	CategoryID      string `gorm:"type:uuid;not null"                             json:"category_id"`
	DurationMinutes int    `gorm:"not null"                                       json:"duration_minutes"`
	Intensity       string `gorm:"type:varchar(20);not null;default:'medium'"     json:"intensity"` // low | medium | high
	InstructorID    string `gorm:"type:uuid;not null"                             json:"instructor_id"`
	LocationID      string `gorm:"type:uuid;not null"                             json:"location_id"`
	Description     string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive        bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Category   *Category   `gorm:"foreignKey:CategoryID;references:CategoryID"     json:"category,omitempty"`
	Instructor *Instructor `gorm:"foreignKey:InstructorID;references:InstructorID" json:"instructor,omitempty"`
}

// TableName 指定表名
func (ClassTemplate) TableName() string { return "class_templates" }

// ClassSchedule 每周排期表 — 对应 class_schedules
// 一个模板在某场馆、每周某天、某时刻开课；无结束日期，停用即不再产生场次
type ClassSchedule struct {
	ScheduleID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	TemplateID      string  `gorm:"type:uuid;not null"                             json:"template_id"`
	LocationID      string  `gorm:"type:uuid;not null"                             json:"location_id"`
	InstructorID    *string `gorm:"type:uuid"                                      json:"instructor_id,omitempty"` // NULL 表示沿用模板教练
	DayOfWeek       int     `gorm:"type:smallint;not null"                         json:"day_of_week"`             // 1=周一 … 7=周日
	StartTime       string  `gorm:"type:time;not null"                             json:"start_time"`
	DurationMinutes int     `gorm:"not null"                                       json:"duration_minutes"`
	Capacity        int     `gorm:"not null"                                       json:"capacity"`
	IsActive        bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Template   *ClassTemplate `gorm:"foreignKey:TemplateID;references:TemplateID"     json:"template,omitempty"`
	Location   *Location      `gorm:"foreignKey:LocationID;references:LocationID"     json:"location,omitempty"`
	Instructor *Instructor    `gorm:"foreignKey:InstructorID;references:InstructorID" json:"instructor,omitempty"`
}

// TableName 指定表名
func (ClassSchedule) TableName() string { return "class_schedules" }

// ClassName 课程名称（模板未预加载时为空）
func (s *ClassSchedule) ClassName() string {
	if s.Template == nil {
		return ""
	}
	return s.Template.Name
}

// CategoryID 课程类别（取自模板）
func (s *ClassSchedule) CategoryID() string {
	if s.Template == nil {
		return ""
	}
	return s.Template.CategoryID
}

// EffectiveInstructor 排期指定的代课教练优先，否则取模板教练
func (s *ClassSchedule) EffectiveInstructor() *Instructor {
	if s.Instructor != nil {
		return s.Instructor
	}
	if s.Template != nil {
		return s.Template.Instructor
	}
	return nil
}
