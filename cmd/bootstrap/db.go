package bootstrap

import (
	"context"
	"log/slog"

	"voucher-console/internal/infra/db"
	"voucher-console/internal/infra/preference"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PreferenceModule = fx.Module("preference",
	fx.Provide(
		NewPreferenceStore,
	),
)

// NewPreferenceStore picks the store named by PREFERENCE_STORE. Only the postgres store opens a
// database connection.
func NewPreferenceStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.PreferenceStore, error) {
	if cfg.Preference.Store != config.PreferenceStorePostgres {
		store := preference.NewMemoryStore()
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				store.Close()
				return nil
			},
		})
		return store, nil
	}

	pool, err := NewDB(lc, cfg)
	if err != nil {
		return nil, err
	}
	store := preference.NewPostgresStore(pool, logger)
	lc.Append(fx.Hook{
		OnStart: store.Start,
		OnStop:  store.Stop,
	})
	return store, nil
}

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
