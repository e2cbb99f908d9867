package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/orderproc/internal/service/orders"
)

// StorageDriver задаёт реализацию OrderRepository.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverRedis    StorageDriver = "redis"
)

// Config описывает настройки запуска orderctl.
type Config struct {
	StorageDriver    StorageDriver `yaml:"storage_driver"`
	MemorySnapshot   string        `yaml:"memory_snapshot"`
	PostgresDSN      string        `yaml:"postgres_dsn"`
	RedisAddr        string        `yaml:"redis_addr"`
	RedisKeyPrefix   string        `yaml:"redis_key_prefix"`
	KafkaBrokers     string        `yaml:"kafka_brokers"`
	KafkaTopic       string        `yaml:"kafka_topic"`
	ValidationPolicy string        `yaml:"validation_policy"`
	PushgatewayURL   string        `yaml:"pushgateway_url"`
	OTLPEndpoint     string        `yaml:"otlp_endpoint"`
	TraceSampleRate  float64       `yaml:"trace_sample_rate"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		StorageDriver:    StorageDriverMemory,
		RedisAddr:        "localhost:6379",
		RedisKeyPrefix:   "oms",
		KafkaTopic:       "oms.order.events",
		ValidationPolicy: string(orders.ValidationNullOnly),
		TraceSampleRate:  1.0,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// LoadFile накладывает YAML-файл поверх cfg. Неизвестные ключи считаются ошибкой.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv применяет переменные окружения OMS_* и KAFKA_BROKERS.
// getenv обычно os.Getenv; пустые значения игнорируются.
func LoadFromEnv(cfg Config, getenv func(string) string) (Config, error) {
	lookup := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	if v := lookup("OMS_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(strings.ToLower(v))
	}
	if v := lookup("OMS_MEMORY_SNAPSHOT"); v != "" {
		cfg.MemorySnapshot = v
	}
	if v := lookup("OMS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := lookup("OMS_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := lookup("OMS_REDIS_KEY_PREFIX"); v != "" {
		cfg.RedisKeyPrefix = v
	}
	if v := lookup("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := lookup("OMS_KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := lookup("OMS_VALIDATION_POLICY"); v != "" {
		cfg.ValidationPolicy = v
	}
	if v := lookup("OMS_PUSHGATEWAY_URL"); v != "" {
		cfg.PushgatewayURL = v
	}
	if v := lookup("OMS_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := lookup("OMS_TRACE_SAMPLE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse OMS_TRACE_SAMPLE_RATE: %w", err)
		}
		cfg.TraceSampleRate = rate
	}
	if v := lookup("OMS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := lookup("OMS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("postgres storage requires OMS_POSTGRES_DSN")
		}
	case StorageDriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("redis storage requires OMS_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q (use memory|postgres|redis)", c.StorageDriver)
	}

	if _, err := orders.ParseValidationPolicy(c.ValidationPolicy); err != nil {
		return err
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("trace sample rate must be between 0 and 1, got %v", c.TraceSampleRate)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (use text|json)", c.LogFormat)
	}
	return nil
}

// PersistsOrders сообщает, переживают ли заказы завершение процесса.
// In-memory хранилище без файла снимка теряет их при выходе.
func (c Config) PersistsOrders() bool {
	switch c.StorageDriver {
	case "", StorageDriverMemory:
		return strings.TrimSpace(c.MemorySnapshot) != ""
	default:
		return true
	}
}

// KafkaBrokerList разбирает список брокеров через запятую.
func (c Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
