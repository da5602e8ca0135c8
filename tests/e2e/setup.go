//go:build e2e

package e2e

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"voucher-console/cmd/bootstrap"
	"voucher-console/cmd/bootstrap/components"
	"voucher-console/internal/pkg/config"
	"voucher-console/tests/common/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

// ------------------------------------------------------------
// 各テストプロセス用にセットアップ
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T) (*pgxpool.Pool, *FakeBackend, config.Config) {
	gin.SetMode(gin.TestMode)

	pool, dbConfig := dbtest.NewDatabase(t)
	backend := NewFakeBackend(t)

	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.Backend.APIURL = backend.URL()
	cfg.Backend.Timeout = 5 * time.Second
	cfg.Preference.Store = config.PreferenceStorePostgres
	cfg.Countdown.Tick = 50 * time.Millisecond

	slog.Info("E2E環境の準備が完了しました", "database", dbConfig.DBName, "backend", backend.URL())
	return pool, backend, cfg
}

// ------------------------------------------------------------
// E2Eテスト用アプリケーション構築関数
// 同じ設定で複数回呼ぶと、DBを共有する別プロセスの代わりになる
// ------------------------------------------------------------
func BuildApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()

	var router *gin.Engine
	app := fx.New(
		fx.Provide(func() config.Config { return cfg }),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.PreferenceModule,
		components.GatewayModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router),

		// ログを無効にして起動
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")
	require.NotNil(t, router, "Routerのセットアップに失敗")

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})
	return router
}

// ------------------------------------------------------------
// E2Eテストスイートで共通のセットアップ
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	DB      *pgxpool.Pool // 各テストで使う DB 接続
	Backend *FakeBackend
	Config  config.Config
}

func (s *SharedSuite) SetupSharedSuite(t *testing.T) {
	db, backend, cfg := setupE2EEnvironment(t)
	s.DB = db
	s.Backend = backend
	s.Config = cfg
	s.Router = BuildApp(t, cfg)
	require.NotNil(t, s.DB, "DBのセットアップに失敗")
}

func (s *SharedSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
}

func (s *SharedSuite) SetupSubTest() {
	s.Backend.Reset()
}

// SeededVoucherCount is how many vouchers FakeBackend.Reset leaves in place.
const SeededVoucherCount = 4
