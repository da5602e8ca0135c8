package components

import (
	"voucher-console/internal/handler"
	"voucher-console/internal/handler/api"
	"voucher-console/internal/handler/middleware"
	"voucher-console/internal/handler/web"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		web.NewPageHandler,
		api.NewNavigationHandler,
		api.NewDashboardHandler,
		api.NewVoucherHandler,
		api.NewGeneratorHandler,
		middleware.NewSessionMiddleware,
		func(
			pages *web.PageHandler,
			navigation *api.NavigationHandler,
			dashboard *api.DashboardHandler,
			vouchers *api.VoucherHandler,
			generator *api.GeneratorHandler,
		) handler.Handlers {
			return handler.Handlers{
				Pages:      pages,
				Navigation: navigation,
				Dashboard:  dashboard,
				Vouchers:   vouchers,
				Generator:  generator,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)
