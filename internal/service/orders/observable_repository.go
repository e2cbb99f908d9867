package orders

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
	"github.com/vladislavdragonenkov/orderproc/internal/metrics"
	"github.com/vladislavdragonenkov/orderproc/internal/telemetry"
)

// ObservableRepository измеряет и трассирует обращения к OrderRepository.
type ObservableRepository struct {
	repo    domain.OrderRepository
	metrics *metrics.OrderMetrics
}

func NewObservableRepository(repo domain.OrderRepository, orderMetrics *metrics.OrderMetrics) *ObservableRepository {
	return &ObservableRepository{repo: repo, metrics: orderMetrics}
}

func (r *ObservableRepository) SaveOrder(order domain.Order) (int64, error) {
	_, span := telemetry.StartSpan(context.Background(), "OrderRepository.SaveOrder")
	defer span.End()
	telemetry.AddSpanAttributes(span, attribute.Int64("order.id", order.ID))

	start := time.Now()
	id, err := r.repo.SaveOrder(order)
	r.metrics.RecordRepositoryCall("save_order", time.Since(start))

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return id, err
	}
	telemetry.SetSpanSuccess(span)
	return id, nil
}

func (r *ObservableRepository) GetOrderByID(id int64) (domain.Option[domain.Order], error) {
	_, span := telemetry.StartSpan(context.Background(), "OrderRepository.GetOrderByID")
	defer span.End()
	telemetry.AddSpanAttributes(span, attribute.Int64("order.id", id))

	start := time.Now()
	found, err := r.repo.GetOrderByID(id)
	r.metrics.RecordRepositoryCall("get_order_by_id", time.Since(start))

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return found, err
	}
	telemetry.AddSpanAttributes(span, attribute.Bool("order.found", found.IsPresent()))
	telemetry.SetSpanSuccess(span)
	return found, nil
}

var _ domain.OrderRepository = (*ObservableRepository)(nil)
