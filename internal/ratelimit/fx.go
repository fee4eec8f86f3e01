package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sabaispa/sabai/internal/config"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewTokenBucket),
)

// NewRedisClient returns nil when no redis address is configured. Rate
// limiting is optional for single-instance deployments.
func NewRedisClient(cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, rate limiting disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
