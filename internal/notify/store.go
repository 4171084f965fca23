package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fitclub/internal/model"
	"fitclub/internal/repository"
)

// Store 写入站内通知表，用户通过 /notifications 查看
type Store struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

// NewStore 创建站内通知渠道
func NewStore(repo repository.NotificationRepository, logger *zap.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

func (s *Store) Notify(ctx context.Context, ev Event) error {
	n := toNotification(ev)
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("写入站内通知失败: %w", err)
	}
	s.logger.Debug("站内通知已写入",
		zap.String("notification_id", n.NotificationID),
		zap.String("type", ev.Type),
		zap.String("user_id", ev.UserID),
	)
	return nil
}

func (s *Store) Close() error { return nil }

// toNotification 将事件渲染为一条站内通知
func toNotification(ev Event) *model.Notification {
	relatedType := "reservation"
	relatedID := ev.ReservationID

	n := &model.Notification{
		UserID:      ev.UserID,
		RelatedType: &relatedType,
		RelatedID:   &relatedID,
	}
	n.CreatedBy = &ev.ActorID

	when := ev.Date
	if ev.StartTime != "" {
		when += " " + ev.StartTime
	}
	className := ev.ClassName
	if className == "" {
		className = "课程"
	}

	switch ev.Type {
	case EventReservationCancelled:
		n.Type = model.NotificationReservationCancelled
		n.Title = "预约已取消"
		if ev.ActorID != "" && ev.ActorID != ev.UserID {
			n.Content = fmt.Sprintf("您预约的 %s（%s）已由工作人员取消", className, when)
		} else {
			n.Content = fmt.Sprintf("您已取消 %s（%s）的预约", className, when)
		}
	default:
		n.Type = model.NotificationReservationBooked
		n.Title = "预约成功"
		n.Content = fmt.Sprintf("您已成功预约 %s（%s）", className, when)
	}
	return n
}
