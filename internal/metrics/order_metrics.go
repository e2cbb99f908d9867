package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы операций сервиса заказов.
const (
	OutcomeProcessed  = "processed"
	OutcomeSaveFailed = "save_failed"
	OutcomeInvalid    = "invalid"
	OutcomeFound      = "found"
	OutcomeEmpty      = "empty"
	OutcomeError      = "error"
)

// OrderMetrics содержит метрики операций над заказами.
type OrderMetrics struct {
	// Счётчик операций по имени и исходу
	operations *prometheus.CounterVec
	// Гистограммы времени выполнения
	operationDuration  *prometheus.HistogramVec
	repositoryDuration *prometheus.HistogramVec
	// Публикация событий
	events *prometheus.CounterVec
}

// NewOrderMetrics регистрирует метрики в registerer (nil — DefaultRegisterer).
// Повторная регистрация возвращает уже существующие коллекторы.
func NewOrderMetrics(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "oms_order_operations_total",
			Help: "Total number of order service operations by outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "oms_order_operation_duration_seconds",
			Help:    "Duration of order service operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		repositoryDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "oms_order_repository_duration_seconds",
			Help:    "Duration of order repository calls in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method"}),
		events: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "oms_order_events_total",
			Help: "Total number of order events handed to the publisher",
		}, []string{"event_type", "result"}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation учитывает завершённую операцию сервиса и её длительность.
func (m *OrderMetrics) RecordOperation(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRepositoryCall записывает время обращения к хранилищу.
func (m *OrderMetrics) RecordRepositoryCall(method string, duration time.Duration) {
	if m == nil {
		return
	}
	m.repositoryDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordEvent учитывает попытку публикации события.
func (m *OrderMetrics) RecordEvent(eventType string, err error) {
	if m == nil {
		return
	}
	result := "published"
	if err != nil {
		result = "failed"
	}
	m.events.WithLabelValues(eventType, result).Inc()
}
