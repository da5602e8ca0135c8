package components

import (
	"log/slog"

	"voucher-console/internal/infra/backend"
	"voucher-console/internal/infra/metrics"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewBackendClient,
			fx.As(new(shared.VoucherGateway)),
		),
	),
	fx.Invoke(func() {
		metrics.MustRegister(prometheus.DefaultRegisterer)
	}),
)

func NewBackendClient(cfg config.Config, logger *slog.Logger) *backend.Client {
	return backend.NewClient(cfg.Backend, logger)
}
