package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitclub/internal/model"
)

// BookingPolicyRepository 预约策略数据访问接口（单行表）
type BookingPolicyRepository interface {
	Get(ctx context.Context) (*model.BookingPolicy, error)
	Upsert(ctx context.Context, policy *model.BookingPolicy) error
}

type bookingPolicyRepo struct {
	db *gorm.DB
}

func NewBookingPolicyRepo(db *gorm.DB) BookingPolicyRepository {
	return &bookingPolicyRepo{db: db}
}

func (r *bookingPolicyRepo) Get(ctx context.Context) (*model.BookingPolicy, error) {
	var policy model.BookingPolicy
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&policy).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &policy, nil
}

func (r *bookingPolicyRepo) Upsert(ctx context.Context, policy *model.BookingPolicy) error {
	policy.Singleton = true
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.AssignmentColumns([]string{"max_advance_days", "updated_at", "updated_by"}),
		}).
		Create(policy).Error
	return translateError(err)
}
