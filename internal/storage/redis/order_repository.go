// Package redis хранит заказы в Redis в виде JSON-документов.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

const (
	opTimeout        = 3 * time.Second
	defaultKeyPrefix = "oms"
)

// storedOrder — формат записи в Redis. Итоговая сумма не хранится.
type storedOrder struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type orderRepository struct {
	client goredis.UniversalClient
	prefix string
}

// Open создаёт клиента Redis и проверяет соединение.
func Open(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// NewOrderRepository создаёт Redis-реализацию OrderRepository.
// Пустой prefix заменяется на "oms".
func NewOrderRepository(client goredis.UniversalClient, prefix string) domain.OrderRepository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &orderRepository{client: client, prefix: prefix}
}

func (r *orderRepository) SaveOrder(order domain.Order) (int64, error) {
	payload, err := json.Marshal(storedOrder{
		ID:          order.ID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		UnitPrice:   order.UnitPrice,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: marshal order %d: %w", domain.ErrSaveFailed, order.ID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(order.ID), payload, 0).Err(); err != nil {
		return 0, fmt.Errorf("%w: set order %d: %w", domain.ErrSaveFailed, order.ID, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(id int64) (domain.Option[domain.Order], error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.None[domain.Order](), nil
	}
	if err != nil {
		return domain.None[domain.Order](), fmt.Errorf("get order %d: %w", id, err)
	}

	var stored storedOrder
	if err := json.Unmarshal(payload, &stored); err != nil {
		return domain.None[domain.Order](), fmt.Errorf("decode order %d: %w", id, err)
	}

	return domain.Some(domain.Order{
		ID:          stored.ID,
		ProductName: stored.ProductName,
		Quantity:    stored.Quantity,
		UnitPrice:   stored.UnitPrice,
	}), nil
}

func (r *orderRepository) key(id int64) string {
	return r.prefix + ":order:" + strconv.FormatInt(id, 10)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
