package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitclub/internal/dto"
	"fitclub/internal/model"
	"fitclub/internal/occurrence"
	"fitclub/internal/repository"
)

// ResolvedOccurrence 排期投影到具体日期得到的场次
type ResolvedOccurrence struct {
	occurrence.Occurrence
	Schedule *model.ClassSchedule
}

// ── OccurrenceService 接口 ──────────────────────────────────
//
//   - Resolve：日期 → 当天星期的全部有效排期（可按场馆/类别过滤）
//   - Browse：Resolve + 关键字过滤 + 批量余位 + 本人预约状态
//   - GetAvailability：单个场次的余位
//
// 余位每次都从台账实时统计，不经过缓存。
// ─────────────────────────────────────────────────────────────

// OccurrenceService 场次查询业务接口
type OccurrenceService interface {
	Resolve(ctx context.Context, date time.Time, locationID, categoryID string) ([]ResolvedOccurrence, error)
	Browse(ctx context.Context, userID string, req *dto.OccurrenceListRequest) ([]dto.OccurrenceResponse, error)
	GetAvailability(ctx context.Context, scheduleID, date string) (*dto.AvailabilityResponse, error)
}

type occurrenceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOccurrenceService 创建 OccurrenceService 实例
func NewOccurrenceService(repo *repository.Repository, logger *zap.Logger) OccurrenceService {
	return &occurrenceService{repo: repo, logger: logger}
}

// parseCivilDate 解析请求中的日期，格式错误归为 ErrInvalidDate
func parseCivilDate(s string) (time.Time, error) {
	d, err := occurrence.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ────────────────────── Resolve ──────────────────────

func (s *occurrenceService) Resolve(ctx context.Context, date time.Time, locationID, categoryID string) ([]ResolvedOccurrence, error) {
	date = occurrence.Civil(date)
	schedules, err := s.repo.Schedule.List(ctx, repository.ScheduleFilter{
		DayOfWeek:  occurrence.ISOWeekday(date),
		LocationID: locationID,
		CategoryID: categoryID,
	})
	if err != nil {
		s.logger.Error("解析场次失败", zap.Time("date", date), zap.Error(err))
		return nil, storeError(err)
	}

	result := make([]ResolvedOccurrence, 0, len(schedules))
	for i := range schedules {
		sch := &schedules[i]
		// 仓储已按星期与启用状态过滤；此处再校验一次，不依赖目录实现的过滤方式
		if !sch.IsActive || !occurrence.MatchesWeekday(sch.DayOfWeek, date) {
			continue
		}
		result = append(result, ResolvedOccurrence{
			Occurrence: occurrence.New(sch.ScheduleID, date),
			Schedule:   sch,
		})
	}
	return result, nil
}

// ────────────────────── Browse ──────────────────────

func (s *occurrenceService) Browse(ctx context.Context, userID string, req *dto.OccurrenceListRequest) ([]dto.OccurrenceResponse, error) {
	date, err := parseCivilDate(req.Date)
	if err != nil {
		return nil, err
	}

	// 1. 投影 + 场馆/类别过滤
	occs, err := s.Resolve(ctx, date, req.LocationID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	// 2. 关键字过滤（课程名 / 教练名，不区分大小写）
	occs = filterByText(occs, req.Q)
	if len(occs) == 0 {
		return []dto.OccurrenceResponse{}, nil
	}

	// 3. 一次分组计数得到全部候选场次的有效预约数
	ids := make([]string, 0, len(occs))
	for _, o := range occs {
		ids = append(ids, o.ScheduleID)
	}
	counts, err := s.repo.Reservation.CountActiveBySchedules(ctx, date, ids)
	if err != nil {
		s.logger.Error("统计场次预约数失败", zap.String("date", req.Date), zap.Error(err))
		return nil, storeError(err)
	}

	// 4. 本人当天的有效预约
	mine, err := s.repo.Reservation.ListActiveByUser(ctx, userID, repository.ReservationFilter{Date: &date})
	if err != nil {
		s.logger.Error("查询用户当日预约失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storeError(err)
	}
	myByOcc := make(map[string]string, len(mine))
	for _, r := range mine {
		myByOcc[r.ScheduleID] = r.ReservationID
	}

	result := make([]dto.OccurrenceResponse, 0, len(occs))
	for _, o := range occs {
		active := counts[o.ScheduleID]
		s.warnIfOverbooked(o.Occurrence, o.Schedule.Capacity, active)

		sr := toScheduleResponse(o.Schedule)
		available := availableSeats(o.Schedule.Capacity, active)
		myID, booked := myByOcc[o.ScheduleID]

		result = append(result, dto.OccurrenceResponse{
			ScheduleID:      o.ScheduleID,
			Date:            req.Date,
			ClassName:       sr.ClassName,
			Category:        sr.Category,
			Instructor:      sr.Instructor,
			Location:        sr.Location,
			StartTime:       sr.StartTime,
			DurationMinutes: sr.DurationMinutes,
			Intensity:       sr.Intensity,
			Capacity:        sr.Capacity,
			Available:       available,
			IsFull:          available == 0,
			BookedByMe:      booked,
			MyReservationID: myID,
		})
	}
	return result, nil
}

func filterByText(occs []ResolvedOccurrence, q string) []ResolvedOccurrence {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return occs
	}

	result := occs[:0]
	for _, o := range occs {
		name := strings.ToLower(o.Schedule.ClassName())
		instructor := ""
		if ins := o.Schedule.EffectiveInstructor(); ins != nil {
			instructor = strings.ToLower(ins.Name)
		}
		if strings.Contains(name, q) || strings.Contains(instructor, q) {
			result = append(result, o)
		}
	}
	return result
}

// ────────────────────── GetAvailability ──────────────────────

func (s *occurrenceService) GetAvailability(ctx context.Context, scheduleID, dateStr string) (*dto.AvailabilityResponse, error) {
	date, err := parseCivilDate(dateStr)
	if err != nil {
		return nil, err
	}

	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排期失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, storeError(err)
	}
	if !occurrence.MatchesWeekday(schedule.DayOfWeek, date) {
		return nil, ErrWeekdayMismatch
	}

	active, err := s.repo.Reservation.CountActive(ctx, scheduleID, date)
	if err != nil {
		s.logger.Error("统计场次预约数失败",
			zap.String("schedule_id", scheduleID), zap.String("date", dateStr), zap.Error(err))
		return nil, storeError(err)
	}
	occ := occurrence.New(scheduleID, date)
	s.warnIfOverbooked(occ, schedule.Capacity, active)

	return &dto.AvailabilityResponse{
		ScheduleID:  scheduleID,
		Date:        dateStr,
		Capacity:    schedule.Capacity,
		ActiveCount: active,
		Available:   availableSeats(schedule.Capacity, active),
	}, nil
}

// warnIfOverbooked 有效预约数超过容量（例如容量被调低）时记录数据完整性告警
func (s *occurrenceService) warnIfOverbooked(occ occurrence.Occurrence, capacity int, active int64) {
	if active > int64(capacity) {
		s.logger.Warn("场次有效预约数超过容量",
			zap.String("occurrence", occ.Key()),
			zap.Int("capacity", capacity),
			zap.Int64("active", active),
		)
	}
}
