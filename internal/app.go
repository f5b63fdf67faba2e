package internal

import (
	"context"

	"shopcart/internal/cli"
	"shopcart/internal/config"
	"shopcart/internal/logging"
	"shopcart/internal/session"
	"shopcart/internal/storage"
	"shopcart/internal/wishlist"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		storage.Module(),
		wishlist.Module(),
		session.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
