package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitclub/internal/dto"
	"fitclub/internal/model"
	"fitclub/internal/repository"
)

// BookingPolicyService 预约策略业务接口
type BookingPolicyService interface {
	Get(ctx context.Context) (*dto.BookingPolicyResponse, error)
	Update(ctx context.Context, req *dto.UpdateBookingPolicyRequest, callerID string) (*dto.BookingPolicyResponse, error)
}

type bookingPolicyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBookingPolicyService 创建 BookingPolicyService 实例
func NewBookingPolicyService(repo *repository.Repository, logger *zap.Logger) BookingPolicyService {
	return &bookingPolicyService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *bookingPolicyService) Get(ctx context.Context) (*dto.BookingPolicyResponse, error) {
	policy, err := s.repo.BookingPolicy.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.BookingPolicyResponse{MaxAdvanceDays: model.DefaultMaxAdvanceDays}, nil
		}
		s.logger.Error("查询预约策略失败", zap.Error(err))
		return nil, storeError(err)
	}
	return toBookingPolicyResponse(policy), nil
}

// ────────────────────── Update ──────────────────────

func (s *bookingPolicyService) Update(ctx context.Context, req *dto.UpdateBookingPolicyRequest, callerID string) (*dto.BookingPolicyResponse, error) {
	policy := &model.BookingPolicy{MaxAdvanceDays: req.MaxAdvanceDays}
	policy.UpdatedBy = &callerID
	policy.UpdatedAt = time.Now()

	if err := s.repo.BookingPolicy.Upsert(ctx, policy); err != nil {
		s.logger.Error("更新预约策略失败", zap.Error(err))
		return nil, storeError(err)
	}

	s.logger.Info("预约策略已更新",
		zap.Int("max_advance_days", req.MaxAdvanceDays),
		zap.String("updated_by", callerID),
	)
	return toBookingPolicyResponse(policy), nil
}

func toBookingPolicyResponse(p *model.BookingPolicy) *dto.BookingPolicyResponse {
	resp := &dto.BookingPolicyResponse{MaxAdvanceDays: p.MaxAdvanceDays}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
