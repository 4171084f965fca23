package dto

// ── 预约模块 DTO ──

// BookRequest 预约请求
type BookRequest struct {
	ScheduleID      string `json:"schedule_id"      binding:"required"`
	ReservationDate string `json:"reservation_date" binding:"required,civildate"`
}

// MyReservationsRequest 我的预约查询参数；不传 date 时返回全部有效预约
type MyReservationsRequest struct {
	Date string `form:"date" binding:"omitempty,civildate"`
}

// ReservationResponse 预约响应
type ReservationResponse struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	ScheduleID      string            `json:"schedule_id"`
	ReservationDate string            `json:"reservation_date"`
	Status          string            `json:"status"`
	CreatedAt       string            `json:"created_at"`
	ClassName       string            `json:"class_name,omitempty"`
	Category        *CategoryResponse `json:"category,omitempty"`
	Instructor      *InstructorBrief  `json:"instructor,omitempty"`
	Location        *LocationResponse `json:"location,omitempty"`
	StartTime       string            `json:"start_time,omitempty"`
	DurationMinutes int               `json:"duration_minutes,omitempty"`
}

// CancelResponse 取消结果；Changed=false 表示预约不存在或早已取消
type CancelResponse struct {
	ID      string `json:"id"`
	Changed bool   `json:"changed"`
}

// RosterEntry 场次名单条目
type RosterEntry struct {
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	BookedAt      string `json:"booked_at"`
}

// RosterResponse 场次名单
type RosterResponse struct {
	ScheduleID string        `json:"schedule_id"`
	Date       string        `json:"date"`
	ClassName  string        `json:"class_name"`
	Capacity   int           `json:"capacity"`
	Entries    []RosterEntry `json:"entries"`
}
