package repository

import (
	"context"

	"gorm.io/gorm"

	"fitclub/internal/model"
)

// CategoryRepository 课程类别数据访问接口
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
}

// ScheduleFilter 排期查询条件；零值字段表示不过滤
type ScheduleFilter struct {
	DayOfWeek       int // 1-7，0 表示不限
	LocationID      string
	CategoryID      string
	IncludeInactive bool
}

// ClassScheduleRepository 每周排期数据访问接口（只读）
type ClassScheduleRepository interface {
	GetByID(ctx context.Context, id string) (*model.ClassSchedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]model.ClassSchedule, error)
}

// ── Category Repository 实现 ──

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, translateError(err)
}

// ── ClassSchedule Repository 实现 ──

type classScheduleRepo struct {
	db *gorm.DB
}

// NewClassScheduleRepo 创建 ClassScheduleRepository 实例
func NewClassScheduleRepo(db *gorm.DB) ClassScheduleRepository {
	return &classScheduleRepo{db: db}
}

// withCatalog 预加载展示所需的模板、类别、教练与场馆
func withCatalog(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Template").
		Preload("Template.Category").
		Preload("Template.Instructor").
		Preload("Location").
		Preload("Instructor")
}

func (r *classScheduleRepo) GetByID(ctx context.Context, id string) (*model.ClassSchedule, error) {
	var schedule model.ClassSchedule
	err := withCatalog(r.db.WithContext(ctx)).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &schedule, nil
}

func (r *classScheduleRepo) List(ctx context.Context, filter ScheduleFilter) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	db := withCatalog(r.db.WithContext(ctx))

	if !filter.IncludeInactive {
		db = db.Where("class_schedules.is_active = ?", true)
	}
	if filter.DayOfWeek != 0 {
		db = db.Where("class_schedules.day_of_week = ?", filter.DayOfWeek)
	}
	if filter.LocationID != "" {
		db = db.Where("class_schedules.location_id = ?", filter.LocationID)
	}
	if filter.CategoryID != "" {
		db = db.Where("class_schedules.template_id IN (?)",
			r.db.Model(&model.ClassTemplate{}).
				Select("template_id").
				Where("category_id = ?", filter.CategoryID))
	}

	err := db.Order("class_schedules.day_of_week ASC, class_schedules.start_time ASC").
		Find(&schedules).Error
	return schedules, translateError(err)
}
