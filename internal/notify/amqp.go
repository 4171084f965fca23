package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpChannel 发布所需的最小通道能力（*amqp.Channel 满足）
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP 将事件以持久化消息投递到 RabbitMQ 队列
type AMQP struct {
	conn   *amqp.Connection
	ch     amqpChannel
	queue  string
	mu     sync.Mutex // amqp.Channel 不支持并发发布
	logger *zap.Logger
}

// NewAMQP 建立连接并声明持久队列
func NewAMQP(url, queue string, logger *zap.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接 RabbitMQ 失败: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 RabbitMQ 通道失败: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明队列 %s 失败: %w", queue, err)
	}

	logger.Info("RabbitMQ 通知渠道就绪", zap.String("queue", queue))
	return &AMQP{conn: conn, ch: ch, queue: queue, logger: logger}, nil
}

func (a *AMQP) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("序列化通知事件失败: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	err = a.ch.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ReservationID,
		Type:         ev.Type,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布通知事件失败: %w", err)
	}
	return nil
}

func (a *AMQP) Close() error {
	if a.ch != nil {
		a.ch.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
