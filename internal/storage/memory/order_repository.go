package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[int64]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[int64]domain.Order),
	}
}

// SaveOrder сохраняет заказ, перезаписывая запись с тем же ID.
func (r *orderRepositoryInMemory) SaveOrder(order domain.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Order не содержит ссылочных полей, поэтому в map попадает независимая копия.
	r.items[order.ID] = order
	return order.ID, nil
}

// GetOrderByID возвращает заказ или None, если его нет.
func (r *orderRepositoryInMemory) GetOrderByID(id int64) (domain.Option[domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.None[domain.Order](), nil
	}
	return domain.Some(order), nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
