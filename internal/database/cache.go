package database

import (
	"context"
	"time"

	"devzora-control-center/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the optional redis client. When nil (no REDIS_ADDR configured or
// the ping failed) every helper is a no-op and reads fall through to the DB.
var Cache *redis.Client

func InitCache(addr string) {
	if addr == "" {
		logger.Log.Info().Msg("REDIS_ADDR not set, running without cache")
		return
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to connect to redis, running without cache")
		return
	}

	Cache = client
	logger.Log.Info().Str("addr", addr).Msg("connected to redis")
}

// CacheGet returns the raw cached bytes for key, if any.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	if Cache == nil {
		return nil, false
	}
	raw, err := Cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// CacheSet stores raw bytes under key with a TTL.
func CacheSet(ctx context.Context, key string, raw []byte, ttl time.Duration) {
	if Cache == nil {
		return
	}
	if err := Cache.SetEx(ctx, key, raw, ttl).Err(); err != nil {
		logger.Log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// CacheDelete drops keys after a write so the next read rebuilds them.
func CacheDelete(ctx context.Context, keys ...string) {
	if Cache == nil {
		return
	}
	if err := Cache.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Debug().Err(err).Msg("cache delete failed")
	}
}
