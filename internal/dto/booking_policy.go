package dto

// ── 预约策略 DTO ──

// UpdateBookingPolicyRequest 更新预约策略请求
type UpdateBookingPolicyRequest struct {
	MaxAdvanceDays int `json:"max_advance_days" binding:"required,min=1,max=90"`
}

// BookingPolicyResponse 预约策略响应
type BookingPolicyResponse struct {
	MaxAdvanceDays int    `json:"max_advance_days"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}
