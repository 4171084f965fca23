package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitclub/internal/dto"
	"fitclub/internal/repository"
)

// CatalogService 课程目录（场馆、类别、每周排期）只读查询
//
// 目录数据可以走缓存；余位与预约判定从不读取缓存
type CatalogService interface {
	ListLocations(ctx context.Context, req *dto.LocationListRequest) ([]dto.LocationResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListSchedules(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, id string) (*dto.ScheduleResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例；cache 可为 nil
func NewCatalogService(repo *repository.Repository, cache Cache, ttl time.Duration, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// cached 先读缓存，未命中再回源并回填；缓存故障只记日志
func cached[T any](ctx context.Context, s *catalogService, key string, load func() (T, error)) (T, error) {
	var out T
	if s.cache != nil && s.ttl > 0 {
		hit, err := s.cache.GetJSON(ctx, key, &out)
		if err != nil {
			s.logger.Warn("读取目录缓存失败", zap.String("key", key), zap.Error(err))
		} else if hit {
			return out, nil
		}
	}

	out, err := load()
	if err != nil {
		return out, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
			s.logger.Warn("写入目录缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

// ────────────────────── ListLocations ──────────────────────

func (s *catalogService) ListLocations(ctx context.Context, req *dto.LocationListRequest) ([]dto.LocationResponse, error) {
	key := fmt.Sprintf("locations:city=%s:inactive=%t", req.City, req.IncludeInactive)
	return cached(ctx, s, key, func() ([]dto.LocationResponse, error) {
		locations, err := s.repo.Location.List(ctx, repository.LocationFilter{
			City:            req.City,
			IncludeInactive: req.IncludeInactive,
		})
		if err != nil {
			s.logger.Error("列出场馆失败", zap.Error(err))
			return nil, storeError(err)
		}
		result := make([]dto.LocationResponse, 0, len(locations))
		for i := range locations {
			result = append(result, *toLocationResponse(&locations[i]))
		}
		return result, nil
	})
}

// ────────────────────── ListCategories ──────────────────────

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	return cached(ctx, s, "categories", func() ([]dto.CategoryResponse, error) {
		categories, err := s.repo.Category.List(ctx)
		if err != nil {
			s.logger.Error("列出课程类别失败", zap.Error(err))
			return nil, storeError(err)
		}
		result := make([]dto.CategoryResponse, 0, len(categories))
		for i := range categories {
			result = append(result, *toCategoryResponse(&categories[i]))
		}
		return result, nil
	})
}

// ────────────────────── ListSchedules ──────────────────────

func (s *catalogService) ListSchedules(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	filter := repository.ScheduleFilter{
		DayOfWeek:       req.DayOfWeek,
		LocationID:      req.LocationID,
		CategoryID:      req.CategoryID,
		IncludeInactive: req.IncludeInactive,
	}
	key := fmt.Sprintf("schedules:%d:%s:%s:%t", filter.DayOfWeek, filter.LocationID, filter.CategoryID, filter.IncludeInactive)

	return cached(ctx, s, key, func() ([]dto.ScheduleResponse, error) {
		schedules, err := s.repo.Schedule.List(ctx, filter)
		if err != nil {
			s.logger.Error("列出排期失败", zap.Error(err))
			return nil, storeError(err)
		}
		result := make([]dto.ScheduleResponse, 0, len(schedules))
		for i := range schedules {
			result = append(result, toScheduleResponse(&schedules[i]))
		}
		return result, nil
	})
}

// ────────────────────── GetSchedule ──────────────────────

func (s *catalogService) GetSchedule(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	return cached(ctx, s, "schedule:"+id, func() (*dto.ScheduleResponse, error) {
		schedule, err := s.repo.Schedule.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrScheduleNotFound
			}
			s.logger.Error("查询排期失败", zap.String("id", id), zap.Error(err))
			return nil, storeError(err)
		}
		resp := toScheduleResponse(schedule)
		return &resp, nil
	})
}
