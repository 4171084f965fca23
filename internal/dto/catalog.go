package dto

// ── 课程目录 DTO ──

// CategoryResponse 课程类别响应
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InstructorBrief 教练简要信息
type InstructorBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScheduleListRequest 排期列表查询参数
type ScheduleListRequest struct {
	LocationID      string `form:"location_id"      binding:"omitempty,uuid"`
	CategoryID      string `form:"category_id"      binding:"omitempty,uuid"`
	DayOfWeek       int    `form:"day_of_week"      binding:"omitempty,min=1,max=7"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ScheduleResponse 每周排期响应
type ScheduleResponse struct {
	ID              string            `json:"id"`
	ClassName       string            `json:"class_name"`
	Category        *CategoryResponse `json:"category,omitempty"`
	Instructor      *InstructorBrief  `json:"instructor,omitempty"`
	Location        *LocationResponse `json:"location,omitempty"`
	DayOfWeek       int               `json:"day_of_week"`
	StartTime       string            `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Intensity       string            `json:"intensity,omitempty"`
	Capacity        int               `json:"capacity"`
	IsActive        bool              `json:"is_active"`
}
