package cli

import (
	"shopcart/internal/session"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"cli",
		fx.Provide(NewRunner),
		// The runner loads the session; the app stop tears it down.
		fx.Invoke(func(lc fx.Lifecycle, sess *session.Session) {
			lc.Append(fx.StopHook(sess.Close))
		}),
	)
}
