package domain

// Option хранит результат поиска: значение либо явное отсутствие.
// Репозитории возвращают None вместо nil-указателя.
type Option[T any] struct {
	value   T
	present bool
}

// Some оборачивает найденное значение.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None возвращает пустой результат.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get возвращает значение и признак его наличия.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent сообщает, содержит ли Option значение.
func (o Option[T]) IsPresent() bool {
	return o.present
}

// OrElse возвращает значение или def, если его нет.
func (o Option[T]) OrElse(def T) T {
	if !o.present {
		return def
	}
	return o.value
}
