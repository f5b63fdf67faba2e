package storage

import (
	"context"

	"shopcart/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Open picks the Redis backend when a URL is configured, else the file.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	if cfg.RedisURL != "" {
		return OpenRedis(ctx, cfg.RedisURL, "")
	}
	return OpenFile(cfg.StorePath)
}

func Module() fx.Option {
	return fx.Module(
		"storage",
		fx.Provide(func(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Store, error) {
			store, err := Open(context.Background(), cfg)
			if err != nil {
				return nil, err
			}
			logger.Named("storage").Debug("store opened",
				zap.Bool("redis", cfg.RedisURL != ""),
				zap.String("path", cfg.StorePath),
			)
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					return store.Close()
				},
			})
			return store, nil
		}),
	)
}
