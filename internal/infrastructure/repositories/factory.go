package repositories

import (
	"context"

	"togetherwatch/internal/core/ports"
	"togetherwatch/internal/infrastructure/repositories/memory"
	redisrepo "togetherwatch/internal/infrastructure/repositories/redis"
	"togetherwatch/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates repositories, preferring Redis when configured and
// reachable and falling back to memory otherwise. Users and videos are
// memory-backed regardless: user records are tiny and video files live
// on disk next to their metadata. The presence registry is always
// memory: presence is ephemeral by design.
type Factory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewFactory(cfg *config.Config, logger *zap.SugaredLogger) (*Factory, error) {
	f := &Factory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	if cfg.Redis.Enabled {
		client, err := redisrepo.NewClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			f.useRedis = false
		} else {
			f.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !f.useRedis {
		logger.Info("using memory repositories")
	}

	return f, nil
}

func (f *Factory) CreateUserRepository() ports.UserRepository {
	return memory.NewUserRepository()
}

func (f *Factory) CreateRoomRepository() ports.RoomRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRoomRepository(f.redisClient)
	}
	return memory.NewRoomRepository()
}

func (f *Factory) CreateMessageRepository() ports.MessageRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewMessageRepository(f.redisClient)
	}
	return memory.NewMessageRepository()
}

func (f *Factory) CreateVideoRepository() ports.VideoRepository {
	return memory.NewVideoRepository()
}

func (f *Factory) CreatePresenceRegistry() ports.PresenceRegistry {
	return memory.NewPresenceRegistry()
}

// Close closes the Redis connection if one is held.
func (f *Factory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseClient(f.redisClient)
	}
	return nil
}

// HealthCheck pings Redis when it is in use.
func (f *Factory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
