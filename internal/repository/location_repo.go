package repository

import (
	"context"

	"gorm.io/gorm"

	"fitclub/internal/model"
)

// LocationFilter 场馆列表条件
type LocationFilter struct {
	City            string
	IncludeInactive bool
}

// LocationRepository 场馆只读访问；场馆由运营后台维护
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*model.Location, error)
	List(ctx context.Context, filter LocationFilter) ([]model.Location, error)
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	if err := r.db.WithContext(ctx).First(&loc, "location_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &loc, nil
}

// List 按城市、名称排序
func (r *locationRepo) List(ctx context.Context, filter LocationFilter) ([]model.Location, error) {
	q := r.db.WithContext(ctx).Model(&model.Location{})
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if !filter.IncludeInactive {
		q = q.Where("is_active")
	}

	var locations []model.Location
	err := q.Order("city, name").Find(&locations).Error
	return locations, translateError(err)
}
