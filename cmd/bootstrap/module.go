package bootstrap

import (
	"voucher-console/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	JWTModule,
	PreferenceModule,
	components.GatewayModule,
	components.UseCaseModule,
	components.HandlerModule,
)
