package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"go.pavemaster.dev/integrations/cache"
	"go.pavemaster.dev/integrations/cache/redis"
	"go.pavemaster.dev/integrations/config"
	"go.pavemaster.dev/integrations/domain"
	"go.pavemaster.dev/integrations/internal/crypto"
	"go.pavemaster.dev/integrations/log"
	"go.pavemaster.dev/integrations/mongodb"
	"go.pavemaster.dev/integrations/storage"
)

// Store is an opened storage backend together with its health check and shutdown hook.
type Store struct {
	domain.IntegrationStore
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

func noop(context.Context) error { return nil }

// OpenStore connects the backend selected in cfg. When a secret key is
// configured the store seals credentials before they are written.
func OpenStore(ctx context.Context, cfg *config.Config, logger log.Logger) (*Store, error) {
	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.SecretKey != "" {
		sealer, err := crypto.NewSealer(cfg.SecretKey)
		if err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		store.IntegrationStore = crypto.NewSealedStore(store.IntegrationStore, sealer)
	} else {
		logger.Warn(ctx, "No secret_key configured, credentials are stored unencrypted", log.Fields{
			"storage_backend": string(cfg.StorageBackend),
		})
	}
	return store, nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger log.Logger) (*Store, error) {
	switch cfg.StorageBackend {
	case config.StorageTypeMemory:
		return &Store{IntegrationStore: cache.NewMemoryStore(), Ping: noop, Close: noop}, nil

	case config.StorageTypeBBolt:
		db, err := storage.NewBBoltStore(cfg.BBoltPath)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "Using bbolt store", log.Fields{"path": cfg.BBoltPath})
		return &Store{
			IntegrationStore: db,
			Ping:             noop,
			Close:            func(context.Context) error { return db.Close() },
		}, nil

	case config.StorageTypeRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info(ctx, "Using Redis store", log.Fields{"addr": cfg.RedisAddr})
		return &Store{
			IntegrationStore: redis.NewIntegrationStore(client, cfg.RedisKeyPrefix),
			Ping:             func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:            func(context.Context) error { return client.Close() },
		}, nil

	case config.StorageTypeMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName, logger)
		if err != nil {
			return nil, err
		}
		s, err := mongodb.NewIntegrationStore(ctx, client.Database(), logger)
		if err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		return &Store{IntegrationStore: s, Ping: client.Ping, Close: client.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
