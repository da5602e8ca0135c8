package bootstrap

import (
	"log/slog"

	"voucher-console/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logConfigSummary),
)

// logConfigSummary records the settings that shape runtime behavior. Secrets are never logged.
func logConfigSummary(cfg config.Config, logger *slog.Logger) {
	logger.Info("設定を読み込みました",
		"backend", cfg.Backend.APIURL,
		"backend_timeout", cfg.Backend.Timeout,
		"preference_store", cfg.Preference.Store,
		"session_ttl", cfg.Session.TTL,
		"bulk_delete_concurrency", cfg.Bulk.DeleteConcurrency,
		"countdown_tick", cfg.Countdown.Tick,
	)
}
