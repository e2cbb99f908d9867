package domain

import "time"

// OrderEventType определяет тип события обработки заказа.
type OrderEventType string

const (
	// OrderEventProcessed — заказ успешно сохранён.
	OrderEventProcessed OrderEventType = "order.processed"
	// OrderEventProcessingFailed — хранилище не смогло сохранить заказ.
	OrderEventProcessingFailed OrderEventType = "order.processing_failed"
)

// OrderEvent описывает результат ProcessOrder для внешних подписчиков.
type OrderEvent struct {
	EventID    string
	Type       OrderEventType
	OrderID    int64
	TotalPrice float64
	Status     string
	OccurredAt time.Time
}
