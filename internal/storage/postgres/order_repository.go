package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) SaveOrder(order domain.Order) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET product_name = EXCLUDED.product_name,
		    quantity = EXCLUDED.quantity,
		    unit_price = EXCLUDED.unit_price
		RETURNING id
	`,
		order.ID, nullableText(order.ProductName), order.Quantity, order.UnitPrice,
	).Scan(&id)
	if err != nil {
		if code := pgErrorCode(err); code != "" {
			return 0, fmt.Errorf("%w: upsert order %d (sqlstate %s): %w", domain.ErrSaveFailed, order.ID, code, err)
		}
		return 0, fmt.Errorf("%w: upsert order %d: %w", domain.ErrSaveFailed, order.ID, err)
	}

	return id, nil
}

func (r *orderRepository) GetOrderByID(id int64) (domain.Option[domain.Order], error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		order       domain.Order
		productName sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_name, quantity, unit_price
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &productName, &order.Quantity, &order.UnitPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.None[domain.Order](), nil
		}
		return domain.None[domain.Order](), fmt.Errorf("select order %d: %w", id, err)
	}
	order.ProductName = productName.String

	return domain.Some(order), nil
}

// nullableText сохраняет отсутствующее название товара как NULL.
func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var _ domain.OrderRepository = (*orderRepository)(nil)
