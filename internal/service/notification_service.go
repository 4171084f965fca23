package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fitclub/internal/dto"
	"fitclub/internal/repository"
)

// NotificationService 站内通知业务接口
type NotificationService interface {
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.ListByUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询站内通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, storeError(err)
	}

	result := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		item := dto.NotificationResponse{
			ID:        n.NotificationID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.RelatedType != nil {
			item.RelatedType = *n.RelatedType
		}
		if n.RelatedID != nil {
			item.RelatedID = *n.RelatedID
		}
		result = append(result, item)
	}
	return result, total, nil
}

// ────────────────────── MarkRead ──────────────────────

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	ok, err := s.repo.Notification.MarkRead(ctx, id, userID)
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.String("id", id), zap.Error(err))
		return storeError(err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
