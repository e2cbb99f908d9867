package orders_test

import (
	"sync"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

// stubRepository считает вызовы и возвращает заранее настроенные ответы.
type stubRepository struct {
	mu sync.Mutex

	saveErr   error
	lookup    map[int64]domain.Order
	lookupErr error

	saved     []domain.Order
	lookupIDs []int64
	saveCalls int
	getCalls  int
}

func newStubRepository() *stubRepository {
	return &stubRepository{lookup: make(map[int64]domain.Order)}
}

func (s *stubRepository) SaveOrder(order domain.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	s.saved = append(s.saved, order)
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	return order.ID, nil
}

func (s *stubRepository) GetOrderByID(id int64) (domain.Option[domain.Order], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	s.lookupIDs = append(s.lookupIDs, id)
	if s.lookupErr != nil {
		return domain.None[domain.Order](), s.lookupErr
	}
	order, ok := s.lookup[id]
	if !ok {
		return domain.None[domain.Order](), nil
	}
	return domain.Some(order), nil
}

func (s *stubRepository) calls() (save, get int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls, s.getCalls
}
