package dto

// ── 场次模块 DTO ──

// OccurrenceListRequest 按日期浏览场次的查询参数
type OccurrenceListRequest struct {
	Date       string `form:"date"        binding:"required,civildate"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Q          string `form:"q"           binding:"omitempty,max=100"`
}

// OccurrenceURI 场次路径参数
type OccurrenceURI struct {
	ScheduleID string `uri:"schedule_id" binding:"required"`
	Date       string `uri:"date"        binding:"required,civildate"`
}

// OccurrenceResponse 某日某排期的一个场次，附带余位与本人预约状态
type OccurrenceResponse struct {
	ScheduleID      string            `json:"schedule_id"`
	Date            string            `json:"date"`
	ClassName       string            `json:"class_name"`
	Category        *CategoryResponse `json:"category,omitempty"`
	Instructor      *InstructorBrief  `json:"instructor,omitempty"`
	Location        *LocationResponse `json:"location,omitempty"`
	StartTime       string            `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Intensity       string            `json:"intensity,omitempty"`
	Capacity        int               `json:"capacity"`
	Available       int               `json:"available"`
	IsFull          bool              `json:"is_full"`
	BookedByMe      bool              `json:"booked_by_me"`
	MyReservationID string            `json:"my_reservation_id,omitempty"`
}

// AvailabilityResponse 场次余位
type AvailabilityResponse struct {
	ScheduleID  string `json:"schedule_id"`
	Date        string `json:"date"`
	Capacity    int    `json:"capacity"`
	ActiveCount int64  `json:"active_count"`
	Available   int    `json:"available"`
}
