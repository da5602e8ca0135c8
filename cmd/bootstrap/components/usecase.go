package components

import (
	"context"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/clock"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/console"
	"voucher-console/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
	usecaseConsoleModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(clk clock.Clock, cfg config.Config) *voucher.Countdown {
		return voucher.NewCountdown(clk, cfg.Countdown.Tick)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewVoucherCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewVoucherQueries,
		queries.NewDashboardQueries,
	),
)

var usecaseConsoleModule = fx.Module("usecase/console",
	fx.Provide(
		console.NewRegistry,
		console.NewShell,
	),
	fx.Invoke(
		func(lc fx.Lifecycle, r *console.Registry) { runInBackground(lc, r.Run) },
	),
)

// runInBackground ties a long-running loop to the app lifecycle.
func runInBackground(lc fx.Lifecycle, run func(context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
