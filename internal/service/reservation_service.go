package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitclub/internal/dto"
	"fitclub/internal/model"
	"fitclub/internal/notify"
	"fitclub/internal/occurrence"
	"fitclub/internal/repository"
	pkgerrors "fitclub/pkg/errors"
	"fitclub/pkg/jwt"
)

// ── ReservationService 接口 ──────────────────────────────────
//
// 预约台账的唯一写入口。
//   - Book：日期校验在事务外完成；容量与重复检查、写入在同一事务内，
//     由场次级 advisory lock 串行化（见 repository.CreateWithinCapacity）
//   - Cancel：条件更新 active → cancelled，重复调用与不存在的 ID 均为成功
//   - 通知只在提交成功之后发出，失败只记日志
// ─────────────────────────────────────────────────────────────

// ReservationService 预约台账业务接口
type ReservationService interface {
	Book(ctx context.Context, userID string, req *dto.BookRequest) (*dto.ReservationResponse, error)
	Cancel(ctx context.Context, callerID, callerRole, reservationID string) (*dto.CancelResponse, error)
	ListForUser(ctx context.Context, userID, date string) ([]dto.ReservationResponse, error)
	ListForOccurrence(ctx context.Context, scheduleID, date string) (*dto.RosterResponse, error)
}

type reservationService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	loc      *time.Location
	retries  int
	now      func() time.Time
	logger   *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
// loc 为业务时区，用于判定“今天”；retries 为瞬时错误的自动重试次数
func NewReservationService(
	repo *repository.Repository,
	notifier notify.Notifier,
	loc *time.Location,
	retries int,
	logger *zap.Logger,
) ReservationService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &reservationService{
		repo:     repo,
		notifier: notifier,
		loc:      loc,
		retries:  retries,
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── Book ──────────────────────

func (s *reservationService) Book(ctx context.Context, userID string, req *dto.BookRequest) (*dto.ReservationResponse, error) {
	date, err := parseCivilDate(req.ReservationDate)
	if err != nil {
		return nil, err
	}

	// 1. 时间窗口：不早于今天，不晚于 今天 + max_advance_days
	today := occurrence.Today(s.now(), s.loc)
	if date.Before(today) {
		return nil, ErrPastDate
	}
	maxDays, err := s.maxAdvanceDays(ctx)
	if err != nil {
		return nil, err
	}
	if occurrence.DaysBetween(today, date) > maxDays {
		return nil, ErrBeyondHorizon
	}

	// 2. 持锁读取排期后的校验：停用与星期不符都不构成场次
	guard := func(sch *model.ClassSchedule) error {
		if !sch.IsActive {
			return ErrScheduleInactive
		}
		if !occurrence.MatchesWeekday(sch.DayOfWeek, date) {
			return ErrWeekdayMismatch
		}
		return nil
	}

	// 3. 原子写入；瞬时错误时事务已整体回滚，可安全重试
	var (
		res      *model.Reservation
		schedule *model.ClassSchedule
	)
	for attempt := 0; ; attempt++ {
		res = &model.Reservation{
			UserID:          userID,
			ScheduleID:      req.ScheduleID,
			ReservationDate: date,
			Status:          model.ReservationActive,
		}
		schedule, err = s.repo.Reservation.CreateWithinCapacity(ctx, res, guard)
		if !s.shouldRetry(ctx, err, attempt) {
			break
		}
		s.logger.Warn("预约写入遇到瞬时错误，重试",
			zap.String("schedule_id", req.ScheduleID),
			zap.String("date", req.ReservationDate),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	if err != nil {
		return nil, s.bookError(err, userID, req)
	}

	s.logger.Info("预约成功",
		zap.String("reservation_id", res.ReservationID),
		zap.String("user_id", userID),
		zap.String("occurrence", occurrence.New(res.ScheduleID, date).Key()),
	)

	// 4. 补全展示信息（失败不影响已提交的结果）
	if detail, err := s.repo.Schedule.GetByID(ctx, schedule.ScheduleID); err == nil {
		schedule = detail
	}
	res.Schedule = schedule

	s.dispatch(ctx, notify.EventReservationBooked, res, userID)

	resp := toReservationResponse(res)
	return &resp, nil
}

func (s *reservationService) bookError(err error, userID string, req *dto.BookRequest) error {
	switch {
	case errors.Is(err, ErrInvalidOccurrence):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrScheduleNotFound
	case errors.Is(err, pkgerrors.ErrCapacityExceeded):
		return ErrCapacityExceeded
	case errors.Is(err, pkgerrors.ErrDuplicateActive):
		return ErrAlreadyBooked
	}
	s.logger.Error("预约写入失败",
		zap.String("user_id", userID),
		zap.String("schedule_id", req.ScheduleID),
		zap.String("date", req.ReservationDate),
		zap.Error(err),
	)
	return storeError(err)
}

// maxAdvanceDays 读取预约策略；策略行缺失时使用默认值
func (s *reservationService) maxAdvanceDays(ctx context.Context) (int, error) {
	policy, err := s.repo.BookingPolicy.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultMaxAdvanceDays, nil
		}
		s.logger.Error("查询预约策略失败", zap.Error(err))
		return 0, storeError(err)
	}
	return policy.MaxAdvanceDays, nil
}

func (s *reservationService) shouldRetry(ctx context.Context, err error, attempt int) bool {
	return err != nil &&
		errors.Is(err, pkgerrors.ErrTransient) &&
		attempt < s.retries &&
		ctx.Err() == nil
}

// ────────────────────── Cancel ──────────────────────

func (s *reservationService) Cancel(ctx context.Context, callerID, callerRole, reservationID string) (*dto.CancelResponse, error) {
	res, err := s.repo.Reservation.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CancelResponse{ID: reservationID, Changed: false}, nil
		}
		s.logger.Error("查询预约失败", zap.String("id", reservationID), zap.Error(err))
		return nil, storeError(err)
	}

	// 已取消的预约对任何调用者都是无变化的成功
	if !res.IsActive() {
		return &dto.CancelResponse{ID: reservationID, Changed: false}, nil
	}
	if res.UserID != callerID && !jwt.IsStaff(callerRole) {
		return nil, ErrForbidden
	}

	var changed bool
	for attempt := 0; ; attempt++ {
		changed, err = s.repo.Reservation.Cancel(ctx, reservationID, callerID)
		if !s.shouldRetry(ctx, err, attempt) {
			break
		}
		s.logger.Warn("取消预约遇到瞬时错误，重试",
			zap.String("id", reservationID), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	if err != nil {
		s.logger.Error("取消预约失败", zap.String("id", reservationID), zap.Error(err))
		return nil, storeError(err)
	}

	if changed {
		s.logger.Info("预约已取消",
			zap.String("reservation_id", reservationID),
			zap.String("user_id", res.UserID),
			zap.String("cancelled_by", callerID),
		)
		if detail, err := s.repo.Schedule.GetByID(ctx, res.ScheduleID); err == nil {
			res.Schedule = detail
		}
		s.dispatch(ctx, notify.EventReservationCancelled, res, callerID)
	}

	return &dto.CancelResponse{ID: reservationID, Changed: changed}, nil
}

// dispatch 提交之后投递通知；失败只记日志
func (s *reservationService) dispatch(ctx context.Context, typ string, res *model.Reservation, actorID string) {
	ev := notify.Event{
		Type:          typ,
		ReservationID: res.ReservationID,
		UserID:        res.UserID,
		ActorID:       actorID,
		ScheduleID:    res.ScheduleID,
		Date:          res.ReservationDate.Format(occurrence.DateLayout),
		OccurredAt:    s.now(),
	}
	if res.Schedule != nil {
		ev.ClassName = res.Schedule.ClassName()
		ev.StartTime = clockTime(res.Schedule.StartTime)
	}

	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.Warn("发送预约通知失败",
			zap.String("type", typ),
			zap.String("reservation_id", res.ReservationID),
			zap.Error(err),
		)
	}
}

// ────────────────────── ListForUser ──────────────────────

func (s *reservationService) ListForUser(ctx context.Context, userID, date string) ([]dto.ReservationResponse, error) {
	var filter repository.ReservationFilter
	if date != "" {
		d, err := parseCivilDate(date)
		if err != nil {
			return nil, err
		}
		filter.Date = &d
	}

	list, err := s.repo.Reservation.ListActiveByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("查询用户预约失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storeError(err)
	}

	result := make([]dto.ReservationResponse, 0, len(list))
	for i := range list {
		result = append(result, toReservationResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── ListForOccurrence ──────────────────────

func (s *reservationService) ListForOccurrence(ctx context.Context, scheduleID, date string) (*dto.RosterResponse, error) {
	d, err := parseCivilDate(date)
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
	if !occurrence.MatchesWeekday(schedule.DayOfWeek, d) {
		return nil, ErrWeekdayMismatch
	}

	list, err := s.repo.Reservation.ListActiveByOccurrence(ctx, scheduleID, d)
	if err != nil {
		s.logger.Error("查询场次名单失败",
			zap.String("schedule_id", scheduleID), zap.String("date", date), zap.Error(err))
		return nil, storeError(err)
	}

	entries := make([]dto.RosterEntry, 0, len(list))
	for _, r := range list {
		entries = append(entries, dto.RosterEntry{
			ReservationID: r.ReservationID,
			UserID:        r.UserID,
			BookedAt:      r.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.RosterResponse{
		ScheduleID: scheduleID,
		Date:       d.Format(occurrence.DateLayout),
		ClassName:  schedule.ClassName(),
		Capacity:   schedule.Capacity,
		Entries:    entries,
	}, nil
}
