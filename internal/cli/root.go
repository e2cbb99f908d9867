// Package cli реализует команды orderctl поверх OrderService.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/orderproc/internal/app"
)

type runtimeFactory func(ctx context.Context, cfg app.Config, logger *log.Entry) (*app.Runtime, error)

func defaultRuntimeFactory(ctx context.Context, cfg app.Config, logger *log.Entry) (*app.Runtime, error) {
	return app.NewRuntime(ctx, cfg, logger)
}

type rootOptions struct {
	configPath       string
	storage          string
	memorySnapshot   string
	postgresDSN      string
	redisAddr        string
	kafkaBrokers     string
	validationPolicy string
	logLevel         string

	newRuntime runtimeFactory
	getenv     func(string) string
}

func newRootCmd(newRuntime runtimeFactory, getenv func(string) string) *cobra.Command {
	if getenv == nil {
		getenv = os.Getenv
	}
	opts := &rootOptions{newRuntime: newRuntime, getenv: getenv}

	cmd := &cobra.Command{
		Use:           "orderctl",
		Short:         "Process orders and calculate their totals",
		Long:          "orderctl validates orders, stores them in the configured repository and calculates order totals.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	flags.StringVar(&opts.storage, "storage", "", "Storage driver: memory|postgres|redis (memory keeps orders between runs only with --memory-snapshot)")
	flags.StringVar(&opts.memorySnapshot, "memory-snapshot", "", "JSON file that keeps in-memory orders between runs")
	flags.StringVar(&opts.postgresDSN, "postgres-dsn", "", "Postgres DSN")
	flags.StringVar(&opts.redisAddr, "redis-addr", "", "Redis address")
	flags.StringVar(&opts.kafkaBrokers, "kafka-brokers", "", "Comma-separated Kafka brokers")
	flags.StringVar(&opts.validationPolicy, "validation-policy", "", "Validation policy: null-only|strict")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newProcessCmd(opts))
	cmd.AddCommand(newTotalCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	return cmd
}

// Execute запускает orderctl; ctx отменяется по сигналу завершения.
func Execute(ctx context.Context) error {
	return newRootCmd(defaultRuntimeFactory, nil).ExecuteContext(ctx)
}

// loadConfig собирает конфигурацию: defaults < файл < окружение < флаги.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg := app.DefaultConfig()

	if o.configPath != "" {
		var err error
		if cfg, err = app.LoadFile(o.configPath, cfg); err != nil {
			return cfg, err
		}
	}

	cfg, err := app.LoadFromEnv(cfg, o.getenv)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.StorageDriver = app.StorageDriver(o.storage)
	}
	if flags.Changed("memory-snapshot") {
		cfg.MemorySnapshot = o.memorySnapshot
	}
	if flags.Changed("postgres-dsn") {
		cfg.PostgresDSN = o.postgresDSN
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr = o.redisAddr
	}
	if flags.Changed("kafka-brokers") {
		cfg.KafkaBrokers = o.kafkaBrokers
	}
	if flags.Changed("validation-policy") {
		cfg.ValidationPolicy = o.validationPolicy
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

// withRuntime собирает Runtime, выполняет fn, отправляет метрики и освобождает ресурсы.
func (o *rootOptions) withRuntime(cmd *cobra.Command, fn func(rt *app.Runtime) error) (err error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if err := app.ConfigureLogger(logger, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	entry := logger.WithField("component", "orderctl")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := o.newRuntime(ctx, cfg, entry)
	if err != nil {
		return err
	}
	defer func() {
		if pushErr := rt.PushMetrics(ctx); pushErr != nil {
			entry.WithError(pushErr).Warn("failed to push metrics")
		}
		err = errors.Join(err, rt.Close(ctx))
	}()

	return fn(rt)
}
