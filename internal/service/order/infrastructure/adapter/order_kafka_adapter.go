package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"bistro/internal/pkg/mq"
	"bistro/internal/service/order/domain"
)

// OrderKafkaProducer 是 port.EventProducer 的 Kafka 实现。
// 以 userID 为 key，保证同一用户的事件有序。
type OrderKafkaProducer struct {
	writer *kafka.Writer
}

func NewOrderKafkaProducer(writer *kafka.Writer) *OrderKafkaProducer {
	return &OrderKafkaProducer{writer: writer}
}

func (p *OrderKafkaProducer) Publish(ctx context.Context, event *domain.OrderEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}
	return errors.Wrap(
		mq.ProduceMessage(ctx, p.writer, []byte(event.UserID), payload),
		"produce order event")
}
