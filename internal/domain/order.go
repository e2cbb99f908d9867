package domain

// Order описывает одну позицию покупки: товар, количество и цену за единицу.
//
// Сущность не проверяет собственные поля: вся валидация выполняется
// сервисным слоем. Нулевые и отрицательные Quantity/UnitPrice допустимы.
type Order struct {
	// ID — целочисленный идентификатор; уникальность обеспечивает хранилище.
	ID int64
	// ProductName — название товара; пустая строка означает отсутствие значения.
	ProductName string
	Quantity    int64
	UnitPrice   float64
}

// TotalPrice возвращает Quantity * UnitPrice.
// Значение вычисляется при каждом вызове и нигде не хранится.
func (o Order) TotalPrice() float64 {
	return float64(o.Quantity) * o.UnitPrice
}
