package cache

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/villagambera/channelbridge/internal/availability/domain"
	"github.com/villagambera/channelbridge/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("availability.cache",
	fx.Provide(NewStore),
)

type StoreParam struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

// NewStore picks the Redis store when a client is configured.
func NewStore(p StoreParam) domain.Store {
	if p.Redis != nil {
		p.Log.Info("availability cache backed by redis", zap.Duration("ttl", p.Config.AvailabilityCacheTTL))
		return NewRedisStore(p.Redis, p.Config.AvailabilityCacheTTL)
	}
	return NewMemoryStore()
}
