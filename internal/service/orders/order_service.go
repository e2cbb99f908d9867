// Package orders содержит бизнес-логику обработки заказов.
package orders

import (
	"fmt"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

// Processor — операции сервиса заказов. Его реализуют OrderService
// и обёртка ObservableService.
type Processor interface {
	ProcessOrder(order *domain.Order) (string, error)
	CalculateTotal(id int64) (float64, error)
}

// ValidationPolicy задаёт набор проверок перед сохранением заказа.
type ValidationPolicy string

const (
	// ValidationNullOnly отклоняет только отсутствующий заказ. Политика по умолчанию.
	ValidationNullOnly ValidationPolicy = "null-only"
	// ValidationStrict дополнительно требует непустое название товара.
	ValidationStrict ValidationPolicy = "strict"
)

// Valid проверяет, что политика относится к поддерживаемым значениям.
func (p ValidationPolicy) Valid() bool {
	switch p {
	case ValidationNullOnly, ValidationStrict:
		return true
	default:
		return false
	}
}

// ParseValidationPolicy разбирает имя политики; пустая строка даёт ValidationNullOnly.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	if s == "" {
		return ValidationNullOnly, nil
	}
	p := ValidationPolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("unsupported validation policy %q (use %s|%s)", s, ValidationNullOnly, ValidationStrict)
	}
	return p, nil
}

// OrderService проверяет заказы, сохраняет их через репозиторий и считает суммы.
// Сервис не хранит состояния, кроме репозитория, переданного при создании.
type OrderService struct {
	repo   domain.OrderRepository
	policy ValidationPolicy
}

// NewOrderService конструирует сервис с политикой ValidationNullOnly.
func NewOrderService(repo domain.OrderRepository) *OrderService {
	return &OrderService{repo: repo, policy: ValidationNullOnly}
}

// NewOrderServiceWithPolicy конструирует сервис с заданной политикой валидации.
// Неизвестная политика заменяется на ValidationNullOnly.
func NewOrderServiceWithPolicy(repo domain.OrderRepository, policy ValidationPolicy) *OrderService {
	if !policy.Valid() {
		policy = ValidationNullOnly
	}
	return &OrderService{repo: repo, policy: policy}
}

// Policy возвращает активную политику валидации.
func (s *OrderService) Policy() ValidationPolicy {
	return s.policy
}

// ProcessOrder валидирует и сохраняет заказ.
//
// Сбой сохранения (ErrSaveFailed) не возвращается как ошибка: вызывающий
// получает статус StatusProcessingFailed. Ошибки валидации возвращаются
// до обращения к репозиторию.
func (s *OrderService) ProcessOrder(order *domain.Order) (string, error) {
	if err := s.validate(order); err != nil {
		return "", err
	}

	if _, err := s.repo.SaveOrder(*order); err != nil {
		if domain.IsSaveFailed(err) {
			return domain.StatusProcessingFailed, nil
		}
		return "", err
	}

	return domain.StatusProcessed, nil
}

// CalculateTotal возвращает сумму заказа или ErrEmptyOrder, если заказа нет.
// Каждый вызов заново читает репозиторий.
func (s *OrderService) CalculateTotal(id int64) (float64, error) {
	found, err := s.repo.GetOrderByID(id)
	if err != nil {
		return 0, domain.NewEmptyOrderError(err)
	}

	order, ok := found.Get()
	if !ok {
		return 0, domain.NewEmptyOrderError(nil)
	}
	return order.TotalPrice(), nil
}

func (s *OrderService) validate(order *domain.Order) error {
	if order == nil {
		return domain.NewInvalidArgumentError(domain.MsgOrderIsNull)
	}
	if s.policy == ValidationStrict && order.ProductName == "" {
		return domain.NewInvalidArgumentError(domain.MsgProductNameRequired)
	}
	return nil
}

var _ Processor = (*OrderService)(nil)
