package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"fitclub/internal/occurrence"
	"fitclub/internal/repository"
)

// CalendarService 以 iCalendar (RFC 5545) 输出用户今天及以后的有效预约，供日历应用订阅
type CalendarService interface {
	UserFeed(ctx context.Context, userID string) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CalendarService {
	if loc == nil {
		loc = time.Local
	}
	return &calendarService{repo: repo, loc: loc, now: time.Now, logger: logger}
}

func (s *calendarService) UserFeed(ctx context.Context, userID string) (string, error) {
	today := occurrence.Today(s.now(), s.loc)
	list, err := s.repo.Reservation.ListActiveByUser(ctx, userID, repository.ReservationFilter{From: &today})
	if err != nil {
		s.logger.Error("查询用户预约失败", zap.String("user_id", userID), zap.Error(err))
		return "", storeError(err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//fitclub//class reservations//ZH")
	cal.SetXWRCalName("我的课程预约")
	cal.SetXWRTimezone(s.loc.String())

	stamp := s.now().UTC()
	for _, r := range list {
		if r.Schedule == nil {
			continue
		}
		start, err := occurrence.StartsAt(r.ReservationDate, r.Schedule.StartTime, s.loc)
		if err != nil {
			s.logger.Warn("排期开始时间无效，跳过",
				zap.String("schedule_id", r.ScheduleID), zap.String("start_time", r.Schedule.StartTime))
			continue
		}
		end := start.Add(time.Duration(r.Schedule.DurationMinutes) * time.Minute)

		ev := cal.AddEvent(r.ReservationID + "@fitclub")
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(r.CreatedAt.UTC())
		ev.SetStartAt(start.UTC())
		ev.SetEndAt(end.UTC())
		ev.SetSummary(r.Schedule.ClassName())
		if r.Schedule.Location != nil {
			ev.SetLocation(r.Schedule.Location.Name)
		}
		if ins := r.Schedule.EffectiveInstructor(); ins != nil {
			ev.SetDescription(fmt.Sprintf("教练：%s", ins.Name))
		}
	}

	return cal.Serialize(), nil
}
