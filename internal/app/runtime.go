package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
	"github.com/vladislavdragonenkov/orderproc/internal/health"
	"github.com/vladislavdragonenkov/orderproc/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderproc/internal/metrics"
	"github.com/vladislavdragonenkov/orderproc/internal/service/orders"
	"github.com/vladislavdragonenkov/orderproc/internal/telemetry"
	"github.com/vladislavdragonenkov/orderproc/internal/version"
)

const (
	serviceName    = "orderctl"
	pushgatewayJob = "orderctl"
)

// Runtime содержит собранные зависимости одного запуска orderctl.
type Runtime struct {
	Service  orders.Processor
	Health   *health.Registry
	Registry *prometheus.Registry
	Logger   *log.Entry

	cfg       Config
	storage   *runtimeStorage
	producer  *kafka.Producer
	telemetry *telemetry.Telemetry
}

// NewRuntime собирает хранилище, публикацию событий, метрики и трейсинг по cfg.
// Недоступная Kafka не мешает запуску: сервис работает без событий.
func NewRuntime(ctx context.Context, cfg Config, logger *log.Entry, telemetryOpts ...telemetry.Option) (*Runtime, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	policy, err := orders.ParseValidationPolicy(cfg.ValidationPolicy)
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		Environment:    "local",
		OTLPEndpoint:   cfg.OTLPEndpoint,
		EnableTracing:  cfg.OTLPEndpoint != "" || len(telemetryOpts) > 0,
		SampleRate:     cfg.TraceSampleRate,
	}, telemetryOpts...)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	producer, err := initKafkaProducer(cfg.KafkaBrokerList(), logger)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
	}
	var publisher domain.EventPublisher
	if producer != nil {
		publisher = kafka.NewOrderEventPublisher(producer, cfg.KafkaTopic)
	}

	repo := orders.NewObservableRepository(storage.repo, orderMetrics)
	service := orders.NewObservableService(
		orders.NewOrderServiceWithPolicy(repo, policy),
		logger.WithField("component", "order-service"),
		orderMetrics,
		publisher,
		kafka.NewOrderEvent,
	)

	healthRegistry := health.NewRegistry(version.GetVersion())
	healthRegistry.RegisterChecker("storage", storage.checker)

	return &Runtime{
		Service:   service,
		Health:    healthRegistry,
		Registry:  registry,
		Logger:    logger,
		cfg:       cfg,
		storage:   storage,
		producer:  producer,
		telemetry: tel,
	}, nil
}

// Config возвращает конфигурацию, по которой собран Runtime.
func (r *Runtime) Config() Config {
	return r.cfg
}

// PushMetrics отправляет накопленные метрики в Pushgateway, если он настроен.
func (r *Runtime) PushMetrics(ctx context.Context) error {
	if r.cfg.PushgatewayURL == "" {
		return nil
	}
	err := push.New(r.cfg.PushgatewayURL, pushgatewayJob).
		Gatherer(r.Registry).
		Grouping("instance", serviceName).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

// Close освобождает хранилище, Kafka producer и трейсинг.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error

	closeKafka(r.producer, r.Logger)
	if r.storage != nil {
		if err := r.storage.close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := r.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
