package session

import (
	"os"

	"shopcart/internal/checkout"
	"shopcart/internal/config"
	"shopcart/internal/storage"
	"shopcart/internal/wishlist"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"session",
		fx.Provide(
			func(cfg config.Config, logger *zap.Logger) checkout.Dispatcher {
				return checkout.Multi{
					checkout.NewLogDispatcher(cfg.HandoffPhone, logger),
					checkout.NewWriterDispatcher(cfg.HandoffPhone, os.Stderr),
				}
			},
			func(cfg config.Config, client *wishlist.Client, store storage.Store, dispatcher checkout.Dispatcher, logger *zap.Logger) *Session {
				return New(client, store, dispatcher, logger, Options{
					FetchWait:     cfg.FetchWait,
					ShopBatchSize: cfg.ShopBatchSize,
					HandoffPhone:  cfg.HandoffPhone,
				})
			},
		),
	)
}
