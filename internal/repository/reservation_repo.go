package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitclub/internal/model"
	"fitclub/internal/occurrence"
	pkgerrors "fitclub/pkg/errors"
)

// ScheduleGuard 在持锁读取排期后、写入预约前执行的业务校验
// 返回非 nil 错误即中止事务，错误原样返回给调用方
type ScheduleGuard func(schedule *model.ClassSchedule) error

// ReservationFilter 用户预约查询条件；Date 与 From 互斥，Date 优先
type ReservationFilter struct {
	Date *time.Time // 仅查该日
	From *time.Time // 该日及以后
}

// ReservationRepository 预约台账数据访问接口
type ReservationRepository interface {
	// CreateWithinCapacity 原子地完成“校验 → 计数 → 写入”
	// 同一场次的并发调用在数据库层串行化，返回持锁时读到的排期
	CreateWithinCapacity(ctx context.Context, res *model.Reservation, guard ScheduleGuard) (*model.ClassSchedule, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	// Cancel 仅当预约仍为 active 时迁移为 cancelled；返回本次调用是否改变了记录
	Cancel(ctx context.Context, id, cancelledBy string) (bool, error)
	CountActive(ctx context.Context, scheduleID string, date time.Time) (int64, error)
	CountActiveBySchedules(ctx context.Context, date time.Time, scheduleIDs []string) (map[string]int64, error)
	ListActiveByUser(ctx context.Context, userID string, filter ReservationFilter) ([]model.Reservation, error)
	ListActiveByOccurrence(ctx context.Context, scheduleID string, date time.Time) ([]model.Reservation, error)
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) CreateWithinCapacity(ctx context.Context, res *model.Reservation, guard ScheduleGuard) (*model.ClassSchedule, error) {
	var schedule model.ClassSchedule
	key := occurrence.New(res.ScheduleID, res.ReservationDate).Key()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 事务级 advisory lock：只串行化同一场次的写入者，提交或回滚时自动释放
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return err
		}

		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("schedule_id = ?", res.ScheduleID).
			First(&schedule).Error
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(&schedule); err != nil {
				return err
			}
		}

		var dup int64
		err = tx.Model(&model.Reservation{}).
			Where("user_id = ? AND schedule_id = ? AND reservation_date = ? AND status = ?",
				res.UserID, res.ScheduleID, res.ReservationDate, model.ReservationActive).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return pkgerrors.ErrDuplicateActive
		}

		var active int64
		err = tx.Model(&model.Reservation{}).
			Where("schedule_id = ? AND reservation_date = ? AND status = ?",
				res.ScheduleID, res.ReservationDate, model.ReservationActive).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active >= int64(schedule.Capacity) {
			return pkgerrors.ErrCapacityExceeded
		}

		res.Status = model.ReservationActive
		return tx.Create(res).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &schedule, nil
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", id).
		First(&res).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &res, nil
}

func (r *reservationRepo) Cancel(ctx context.Context, id, cancelledBy string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_id = ? AND status = ?", id, model.ReservationActive).
		Updates(map[string]interface{}{
			"status":       model.ReservationCancelled,
			"cancelled_at": now,
			"cancelled_by": cancelledBy,
		})
	if result.Error != nil {
		err := translateError(result.Error)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return result.RowsAffected > 0, nil
}

func (r *reservationRepo) CountActive(ctx context.Context, scheduleID string, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("schedule_id = ? AND reservation_date = ? AND status = ?", scheduleID, date, model.ReservationActive).
		Count(&count).Error
	return count, translateError(err)
}

func (r *reservationRepo) CountActiveBySchedules(ctx context.Context, date time.Time, scheduleIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ScheduleID string
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Select("schedule_id, COUNT(*) AS total").
		Where("reservation_date = ? AND status = ? AND schedule_id IN ?", date, model.ReservationActive, scheduleIDs).
		Group("schedule_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		counts[row.ScheduleID] = row.Total
	}
	return counts, nil
}

// withScheduleDetail 预加载预约所属排期的完整展示信息
func withScheduleDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Schedule").
		Preload("Schedule.Template").
		Preload("Schedule.Template.Category").
		Preload("Schedule.Template.Instructor").
		Preload("Schedule.Location").
		Preload("Schedule.Instructor")
}

func (r *reservationRepo) ListActiveByUser(ctx context.Context, userID string, filter ReservationFilter) ([]model.Reservation, error) {
	var list []model.Reservation
	db := withScheduleDetail(r.db.WithContext(ctx)).
		Where("user_id = ? AND status = ?", userID, model.ReservationActive)

	switch {
	case filter.Date != nil:
		db = db.Where("reservation_date = ?", *filter.Date)
	case filter.From != nil:
		db = db.Where("reservation_date >= ?", *filter.From)
	}

	err := db.Order("reservation_date ASC, created_at ASC").Find(&list).Error
	return list, translateError(err)
}

func (r *reservationRepo) ListActiveByOccurrence(ctx context.Context, scheduleID string, date time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND reservation_date = ? AND status = ?", scheduleID, date, model.ReservationActive).
		Order("created_at ASC").
		Find(&list).Error
	return list, translateError(err)
}
