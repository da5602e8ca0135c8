package bootstrap

import (
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	if cfg.Session.TTL <= 0 {
		panic("invalid SESSION_TTL: must be positive")
	}
	return jwt.NewService(cfg.Session.Secret, cfg.Session.TTL)
}
