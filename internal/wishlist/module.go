package wishlist

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"wishlist",
		fx.Provide(NewClient),
	)
}
