package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/storage"
)

// purgeInterval 过期会话清理周期
const purgeInterval = time.Hour

// NewRepository 按配置创建会话仓储，返回的 cleanup 释放底层连接
func NewRepository(cfg *config.SessionConfig) (domainQuery.SessionRepository, func(), error) {
	logger := log.NewModuleLogger("session", "factory")

	switch cfg.Store {
	case config.SessionStoreRedis:
		repo, err := NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis session store", "addr", cfg.RedisAddr)
		return repo, func() { _ = repo.Close() }, nil

	case config.SessionStoreSQLite:
		db, err := storage.ProvideDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := storage.NewSessionRepository(db)

		ctx, cancel := context.WithCancel(context.Background())
		if cfg.TTL > 0 {
			go purgeLoop(ctx, purgeInterval, func(ctx context.Context) (int64, error) {
				return repo.PurgeBefore(ctx, time.Now().Add(-cfg.TTL))
			}, logger)
		}
		logger.Info("Using sqlite session store", "path", cfg.SQLitePath)
		return repo, func() {
			cancel()
			_ = db.Close()
		}, nil

	case config.SessionStoreMemory, "":
		repo := NewMemoryRepository(cfg.TTL)
		ctx, cancel := context.WithCancel(context.Background())
		if cfg.TTL > 0 {
			go purgeLoop(ctx, sweepInterval(cfg.TTL), func(context.Context) (int64, error) {
				return int64(repo.Sweep()), nil
			}, logger)
		}
		logger.Info("Using in-memory session store")
		return repo, cancel, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}
}

// sweepInterval 内存仓储清理周期，不超过 purgeInterval
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < purgeInterval {
		return ttl
	}
	return purgeInterval
}

// purgeLoop 周期性清理过期会话，直到 ctx 取消
func purgeLoop(ctx context.Context, interval time.Duration, purge func(ctx context.Context) (int64, error), logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := purge(ctx)
			if err != nil {
				logger.Warn("Failed to purge expired sessions", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("Purged expired sessions", "count", removed)
			}
		}
	}
}
