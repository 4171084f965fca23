package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// kafkaWriter 发布所需的最小写入能力（*kafka.Writer 满足）
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka 将事件写入 Kafka 主题；以场次为 key，同一场次的事件落在同一分区保持有序
type Kafka struct {
	w      kafkaWriter
	logger *zap.Logger
}

// NewKafka 创建 Kafka 通知渠道；连接在首次写入时建立
func NewKafka(brokers []string, topic string, logger *zap.Logger) *Kafka {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	logger.Info("Kafka 通知渠道就绪", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &Kafka{w: w, logger: logger}
}

func (k *Kafka) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("序列化通知事件失败: %w", err)
	}

	err = k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ScheduleID + ":" + ev.Date),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
		Time: ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("写入 Kafka 失败: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error { return k.w.Close() }
