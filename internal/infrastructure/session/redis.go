package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/storage"
)

const keyPrefix = "logisense:session:"

// RedisRepository 基于 Redis 的会话仓储，多实例部署共享上下文
type RedisRepository struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisRepository 连接 Redis 并检测可用性
func NewRedisRepository(addr, password string, db int, ttl time.Duration) (*RedisRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisRepository{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.NewModuleLogger("session", "redis"),
	}, nil
}

// Load 读取会话上下文，不存在时返回 (nil, nil)
func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*domainQuery.ContextSnapshot, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var snapshot domainQuery.ContextSnapshot
	if err := storage.DecodeJSON(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &snapshot, nil
}

// Save 整体覆盖会话上下文，并刷新过期时间
func (r *RedisRepository) Save(ctx context.Context, sessionID string, snapshot domainQuery.ContextSnapshot) error {
	if snapshot.LastDocuments == nil {
		snapshot.LastDocuments = []domainQuery.RetrievedDocument{}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}

	// ttl 为 0 时不过期
	if err := r.rdb.Set(ctx, sessionKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	r.logger.Debug("Session saved",
		"session_id", sessionID,
		"documents", len(snapshot.LastDocuments),
	)
	return nil
}

// Delete 删除会话上下文
func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// Close 关闭连接
func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}
