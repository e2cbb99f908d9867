package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderproc/internal/domain"
	"github.com/vladislavdragonenkov/orderproc/internal/health"
	"github.com/vladislavdragonenkov/orderproc/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderproc/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/orderproc/internal/storage/redis"
)

type runtimeStorage struct {
	repo    domain.OrderRepository
	checker health.Checker
	close   func() error
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeStorage, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		healthy := health.NewPingChecker("storage", 0, func(context.Context) error {
			return nil
		})
		path := strings.TrimSpace(cfg.MemorySnapshot)
		if path == "" {
			logger.Info("using in-memory storage")
			return &runtimeStorage{
				repo:    memory.NewOrderRepository(),
				checker: healthy,
				close:   func() error { return nil },
			}, nil
		}

		repo, flush, err := memory.OpenSnapshot(path)
		if err != nil {
			return nil, fmt.Errorf("open memory snapshot: %w", err)
		}
		logger.WithField("snapshot", path).Info("using in-memory storage with snapshot")
		return &runtimeStorage{
			repo:    repo,
			checker: healthy,
			close:   flush,
		}, nil

	case StorageDriverPostgres:
		dsn := strings.TrimSpace(cfg.PostgresDSN)
		if dsn == "" {
			return nil, errors.New("postgres storage selected but OMS_POSTGRES_DSN is empty")
		}
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		logger.Info("using postgres storage")
		return &runtimeStorage{
			repo:    postgres.NewOrderRepository(store),
			checker: health.NewPingChecker("storage", 0, store.Ping),
			close:   store.Close,
		}, nil

	case StorageDriverRedis:
		client, err := redisstore.Open(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("using redis storage")
		return &runtimeStorage{
			repo: redisstore.NewOrderRepository(client, cfg.RedisKeyPrefix),
			checker: health.NewPingChecker("storage", 0, func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}),
			close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
