// Package notify 将已提交的预约结果交给下游通知渠道。
//
// 只在事务提交之后调用；投递失败由调用方记录日志，不影响预约结果。
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fitclub/config"
	"fitclub/internal/repository"
)

// 事件类型
const (
	EventReservationBooked    = "reservation.booked"
	EventReservationCancelled = "reservation.cancelled"
)

// Event 预约结果事件
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`  // 预约所属用户
	ActorID       string    `json:"actor_id"` // 发起操作的用户（工作人员代取消时与 UserID 不同）
	ScheduleID    string    `json:"schedule_id"`
	Date          string    `json:"date"`
	ClassName     string    `json:"class_name,omitempty"`
	StartTime     string    `json:"start_time,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier 通知渠道
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close() error
}

// New 按配置选择通知渠道
func New(cfg *config.NotifyConfig, repo repository.NotificationRepository, logger *zap.Logger) (Notifier, error) {
	switch cfg.Driver {
	case "store":
		return NewStore(repo, logger), nil
	case "amqp":
		return NewAMQP(cfg.AMQPURL, cfg.AMQPQueue, logger)
	case "kafka":
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger), nil
	case "none", "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("不支持的通知驱动: %s", cfg.Driver)
	}
}

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
func (Nop) Close() error                        { return nil }
