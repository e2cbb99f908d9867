package orders

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
	"github.com/vladislavdragonenkov/orderproc/internal/metrics"
	"github.com/vladislavdragonenkov/orderproc/internal/telemetry"
)

const (
	operationProcessOrder   = "process_order"
	operationCalculateTotal = "calculate_total"
)

// EventFactory строит событие по результату ProcessOrder.
type EventFactory func(eventType domain.OrderEventType, order domain.Order, status string) domain.OrderEvent

// ObservableService добавляет к Processor логирование, метрики, трейсинг
// и публикацию событий. Результаты и ошибки внутреннего Processor
// возвращаются без изменений.
type ObservableService struct {
	next      Processor
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
	publisher domain.EventPublisher
	newEvent  EventFactory
}

// NewObservableService оборачивает next. publisher может быть nil —
// тогда события не публикуются.
func NewObservableService(
	next Processor,
	logger *log.Entry,
	orderMetrics *metrics.OrderMetrics,
	publisher domain.EventPublisher,
	newEvent EventFactory,
) *ObservableService {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	if newEvent == nil {
		newEvent = defaultEvent
	}
	return &ObservableService{
		next:      next,
		logger:    logger,
		metrics:   orderMetrics,
		publisher: publisher,
		newEvent:  newEvent,
	}
}

func (s *ObservableService) ProcessOrder(order *domain.Order) (string, error) {
	ctx, span := telemetry.StartSpan(context.Background(), "OrderService.ProcessOrder")
	defer span.End()

	logger := s.logger.WithField("operation", operationProcessOrder)
	if order != nil {
		telemetry.AddSpanAttributes(span,
			attribute.Int64("order.id", order.ID),
			attribute.Int64("order.quantity", order.Quantity),
			attribute.Float64("order.unit_price", order.UnitPrice),
		)
		logger = logger.WithField("order_id", order.ID)
	}
	if traceID := telemetry.TraceID(ctx); traceID != "" {
		logger = logger.WithField("trace_id", traceID)
	}

	start := time.Now()
	status, err := s.next.ProcessOrder(order)
	duration := time.Since(start)

	switch {
	case err != nil:
		outcome := metrics.OutcomeError
		if domain.IsInvalidArgument(err) {
			outcome = metrics.OutcomeInvalid
		}
		s.metrics.RecordOperation(operationProcessOrder, outcome, duration)
		telemetry.RecordSpanError(span, err)
		logger.WithError(err).Warn("order rejected")
		return status, err
	case status == domain.StatusProcessingFailed:
		s.metrics.RecordOperation(operationProcessOrder, metrics.OutcomeSaveFailed, duration)
		telemetry.AddSpanAttributes(span, attribute.String("order.status", status))
		logger.Error("order was not saved by repository")
		s.publish(logger, domain.OrderEventProcessingFailed, *order, status)
		return status, nil
	default:
		s.metrics.RecordOperation(operationProcessOrder, metrics.OutcomeProcessed, duration)
		telemetry.AddSpanAttributes(span, attribute.String("order.status", status))
		telemetry.SetSpanSuccess(span)
		logger.WithField("duration_ms", duration.Milliseconds()).Info("order processed")
		s.publish(logger, domain.OrderEventProcessed, *order, status)
		return status, nil
	}
}

func (s *ObservableService) CalculateTotal(id int64) (float64, error) {
	_, span := telemetry.StartSpan(context.Background(), "OrderService.CalculateTotal")
	defer span.End()
	telemetry.AddSpanAttributes(span, attribute.Int64("order.id", id))

	logger := s.logger.WithFields(log.Fields{
		"operation": operationCalculateTotal,
		"order_id":  id,
	})

	start := time.Now()
	total, err := s.next.CalculateTotal(id)
	duration := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		if domain.IsEmptyOrder(err) {
			outcome = metrics.OutcomeEmpty
		}
		s.metrics.RecordOperation(operationCalculateTotal, outcome, duration)
		telemetry.RecordSpanError(span, err)
		logger.WithError(err).Warn("total price is not available")
		return total, err
	}

	s.metrics.RecordOperation(operationCalculateTotal, metrics.OutcomeFound, duration)
	telemetry.AddSpanAttributes(span, attribute.Float64("order.total_price", total))
	telemetry.SetSpanSuccess(span)
	logger.WithField("total_price", total).Debug("total price calculated")
	return total, nil
}

// publish отправляет событие; ошибка публикации только логируется.
func (s *ObservableService) publish(logger *log.Entry, eventType domain.OrderEventType, order domain.Order, status string) {
	if s.publisher == nil {
		return
	}
	event := s.newEvent(eventType, order, status)
	err := s.publisher.Publish(event)
	s.metrics.RecordEvent(string(eventType), err)
	if err != nil {
		logger.WithError(err).WithField("event_id", event.EventID).Warn("failed to publish order event")
	}
}

func defaultEvent(eventType domain.OrderEventType, order domain.Order, status string) domain.OrderEvent {
	return domain.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice(),
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

var _ Processor = (*ObservableService)(nil)
