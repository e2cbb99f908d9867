package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// SaveOrder сохраняет заказ (insert или upsert по ID) и возвращает его идентификатор.
	// Любая ошибка записи должна оборачивать ErrSaveFailed.
	SaveOrder(order Order) (int64, error)
	// GetOrderByID возвращает заказ или None, если его нет.
	// Ошибка возвращается только при сбое самого хранилища.
	GetOrderByID(id int64) (Option[Order], error)
}

// EventPublisher публикует доменные события заказа во внешнюю шину.
type EventPublisher interface {
	// Publish должен быть идемпотентным по EventID.
	Publish(event OrderEvent) error
}
