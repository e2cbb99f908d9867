package kafka

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

// TopicOrderEvents — топик по умолчанию для событий обработки заказов.
const TopicOrderEvents = "oms.order.events"

// OrderEventMessage — JSON-представление domain.OrderEvent в Kafka.
type OrderEventMessage struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderEvent создаёт событие по заказу с новым EventID.
func NewOrderEvent(eventType domain.OrderEventType, order domain.Order, status string) domain.OrderEvent {
	return domain.OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice(),
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

func toMessage(event domain.OrderEvent) OrderEventMessage {
	return OrderEventMessage{
		EventID:    event.EventID,
		EventType:  string(event.Type),
		OrderID:    event.OrderID,
		TotalPrice: event.TotalPrice,
		Status:     event.Status,
		OccurredAt: event.OccurredAt,
	}
}

// messageKey группирует события одного заказа в одну партицию.
func messageKey(event domain.OrderEvent) string {
	return strconv.FormatInt(event.OrderID, 10)
}
