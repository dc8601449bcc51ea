package session

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
)

// Open builds the Store for the configured backend. The redis and postgres
// backends are pinged so an unreachable server fails here rather than on
// every read.
func Open(ctx context.Context, cfg config.SessionConfig, log *slog.Logger) (*Store, error) {
	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return NewStore(backend, log), nil
}

func openBackend(ctx context.Context, cfg config.SessionConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.SessionBackendFile, "":
		return NewFileBackend(cfg.Path, cfg.EncryptionKey)
	case config.SessionBackendMemory:
		return NewMemoryBackend(), nil
	case config.SessionBackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.SessionBackendPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL, log)
	case config.SessionBackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("session: connect redis %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisBackend(rdb, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("session: unknown backend %q", cfg.Backend)
	}
}
