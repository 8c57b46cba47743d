package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"shopstock/internal/service"
)

// OrderProducer publishes order lifecycle events to a Kafka topic.
// It implements service.EventBus.
type OrderProducer struct {
	writer *kafka.Writer
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (p *OrderProducer) publish(ctx context.Context, key string, ev envelope) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *OrderProducer) PublishOrderCreated(ctx context.Context, ev service.OrderCreatedEvent) error {
	return p.publish(ctx, fmt.Sprintf("order-%d", ev.OrderID), envelope{Type: "order.created", Payload: ev})
}

func (p *OrderProducer) PublishOrderCancelled(ctx context.Context, ev service.OrderCancelledEvent) error {
	return p.publish(ctx, fmt.Sprintf("order-%d", ev.OrderID), envelope{Type: "order.cancelled", Payload: ev})
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}
