package dto

// ── 场馆模块 DTO ──

// LocationListRequest 场馆列表查询参数
type LocationListRequest struct {
	City            string `form:"city"             binding:"omitempty,max=50"`
	IncludeInactive bool   `form:"include_inactive"`
}

// LocationResponse 场馆信息响应
type LocationResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	IsActive     bool   `json:"is_active"`
}
