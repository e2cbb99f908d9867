package domain

import "errors"

var (
	// ErrInvalidArgument — входной заказ отсутствует или не прошёл валидацию.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSaveFailed — хранилище не смогло сохранить заказ.
	ErrSaveFailed = errors.New("order save failed")
	// ErrEmptyOrder — по идентификатору не найден заказ для расчёта суммы.
	ErrEmptyOrder = errors.New("empty order")
)

// Тексты ошибок и статусов, видимые вызывающей стороне.
const (
	MsgOrderIsNull         = "Order is null!"
	MsgProductNameRequired = "Product name cannot be null or empty"
	MsgNoOrderToCalculate  = "No order to calculate total price"

	StatusProcessed        = "Order processed successfully"
	StatusProcessingFailed = "Order processing failed"
)

// OrderError — типизированная ошибка сервиса заказов.
// Kind задаёт класс ошибки (одна из sentinel-ошибок выше), Message — текст для клиента.
type OrderError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *OrderError) Error() string {
	return e.Message
}

// Is позволяет сопоставлять ошибку с её классом через errors.Is.
func (e *OrderError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *OrderError) Unwrap() error {
	return e.Cause
}

// NewInvalidArgumentError создаёт ошибку некорректного аргумента.
func NewInvalidArgumentError(message string) *OrderError {
	return &OrderError{Kind: ErrInvalidArgument, Message: message}
}

// NewSaveFailedError оборачивает причину сбоя записи.
func NewSaveFailedError(cause error) *OrderError {
	msg := ErrSaveFailed.Error()
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &OrderError{Kind: ErrSaveFailed, Message: msg, Cause: cause}
}

// NewEmptyOrderError создаёт ошибку отсутствующего заказа; cause может быть nil.
func NewEmptyOrderError(cause error) *OrderError {
	return &OrderError{Kind: ErrEmptyOrder, Message: MsgNoOrderToCalculate, Cause: cause}
}

// IsInvalidArgument проверяет, является ли ошибка ошибкой валидации.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsSaveFailed проверяет, является ли ошибка сбоем сохранения.
func IsSaveFailed(err error) bool {
	return errors.Is(err, ErrSaveFailed)
}

// IsEmptyOrder проверяет, означает ли ошибка отсутствие заказа.
func IsEmptyOrder(err error) bool {
	return errors.Is(err, ErrEmptyOrder)
}
