package kafka

import (
	"fmt"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

// OrderEventPublisher публикует события заказов в заданный Kafka topic.
type OrderEventPublisher struct {
	producer *Producer
	topic    string
}

// NewOrderEventPublisher создаёт паблишер; пустой topic заменяется на TopicOrderEvents.
func NewOrderEventPublisher(producer *Producer, topic string) domain.EventPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *OrderEventPublisher) Publish(event domain.OrderEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka order publisher is not initialized")
	}
	return p.producer.PublishJSON(p.topic, messageKey(event), toMessage(event))
}

var _ domain.EventPublisher = (*OrderEventPublisher)(nil)
