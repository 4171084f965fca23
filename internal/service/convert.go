package service

import (
	"time"

	"fitclub/internal/dto"
	"fitclub/internal/model"
	"fitclub/internal/occurrence"
)

// ── 模型 → 响应 转换 ──

func toLocationResponse(loc *model.Location) *dto.LocationResponse {
	if loc == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:           loc.LocationID,
		Name:         loc.Name,
		City:         loc.City,
		Address:      loc.Address,
		Phone:        loc.Phone,
		OpeningHours: loc.OpeningHours,
		IsActive:     loc.IsActive,
	}
}

func toCategoryResponse(cat *model.Category) *dto.CategoryResponse {
	if cat == nil {
		return nil
	}
	return &dto.CategoryResponse{ID: cat.CategoryID, Name: cat.Name}
}

func toInstructorBrief(ins *model.Instructor) *dto.InstructorBrief {
	if ins == nil {
		return nil
	}
	return &dto.InstructorBrief{ID: ins.InstructorID, Name: ins.Name}
}

func toScheduleResponse(s *model.ClassSchedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:              s.ScheduleID,
		ClassName:       s.ClassName(),
		Instructor:      toInstructorBrief(s.EffectiveInstructor()),
		Location:        toLocationResponse(s.Location),
		DayOfWeek:       s.DayOfWeek,
		StartTime:       clockTime(s.StartTime),
		DurationMinutes: s.DurationMinutes,
		Capacity:        s.Capacity,
		IsActive:        s.IsActive,
	}
	if s.Template != nil {
		resp.Category = toCategoryResponse(s.Template.Category)
		resp.Intensity = s.Template.Intensity
	}
	return resp
}

func toReservationResponse(r *model.Reservation) dto.ReservationResponse {
	resp := dto.ReservationResponse{
		ID:              r.ReservationID,
		UserID:          r.UserID,
		ScheduleID:      r.ScheduleID,
		ReservationDate: r.ReservationDate.Format(occurrence.DateLayout),
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if s := r.Schedule; s != nil {
		sr := toScheduleResponse(s)
		resp.ClassName = sr.ClassName
		resp.Category = sr.Category
		resp.Instructor = sr.Instructor
		resp.Location = sr.Location
		resp.StartTime = sr.StartTime
		resp.DurationMinutes = sr.DurationMinutes
	}
	return resp
}

// clockTime 将 PostgreSQL TIME 的 "07:00:00" 截为 "07:00"
func clockTime(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// availableSeats 剩余名额，下限为 0
func availableSeats(capacity int, active int64) int {
	if left := int64(capacity) - active; left > 0 {
		return int(left)
	}
	return 0
}
