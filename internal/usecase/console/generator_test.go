//go:build unit

package console_test

import (
	"context"
	"testing"
	"time"

	"voucher-console/internal/pkg/clock"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/console"
	"voucher-console/internal/usecase/shared"
	"voucher-console/tests/common/builder"
	sharedmock "voucher-console/tests/mock/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func ptr[T any](v T) *T {
	return &v
}

func newGenerator(t *testing.T) (*console.Generator, *sharedmock.MockVoucherGateway, *clock.MockClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gateway := sharedmock.NewMockVoucherGateway(ctrl)
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC))
	return console.NewGenerator(commands.NewVoucherCommands(gateway, config.NewTestConfig()), clk), gateway, clk
}

func TestGenerator_Defaults(t *testing.T) {
	g, _, _ := newGenerator(t)
	view := g.View()
	assert.Equal(t, "1", view.Quantity)
	assert.Equal(t, "1h", view.Duration)
	assert.Equal(t, "1gb", view.DataLimit)
	assert.Equal(t, "2024-05-01T11:15:00.000Z", view.ExpiresAt)
	assert.Equal(t, "2024-05-01", view.ExpirationDate)
	assert.False(t, view.ManualExpiry)
	assert.Empty(t, view.Codes)
	assert.Len(t, view.DurationOptions, 6)
	assert.Len(t, view.DataLimitOptions, 6)
}

func TestGenerator_Update(t *testing.T) {
	t.Run("期間変更で有効期限を再計算", func(t *testing.T) {
		g, _, clk := newGenerator(t)
		clk.Add(5 * time.Minute)
		require.NoError(t, g.Update(console.FormPatch{Duration: ptr("7d")}))
		assert.Equal(t, "2024-05-08T10:20:00.000Z", g.View().ExpiresAt)
	})

	t.Run("手動指定の日付は期間変更後も維持", func(t *testing.T) {
		g, _, _ := newGenerator(t)
		require.NoError(t, g.Update(console.FormPatch{ExpirationDate: ptr("2024-06-15")}))
		assert.Equal(t, "2024-06-15T10:15:00.000Z", g.View().ExpiresAt)
		assert.True(t, g.View().ManualExpiry)

		require.NoError(t, g.Update(console.FormPatch{Duration: ptr("30d")}))
		view := g.View()
		assert.Equal(t, "30d", view.Duration)
		assert.Equal(t, "2024-06-15T10:15:00.000Z", view.ExpiresAt)
	})

	t.Run("全項目のパッチを適用", func(t *testing.T) {
		g, _, _ := newGenerator(t)
		require.NoError(t, g.Update(builder.NewGeneratorPatch().ToPatch()))
		view := g.View()
		assert.Equal(t, "5", view.Quantity)
		assert.Equal(t, "7d", view.Duration)
		assert.Equal(t, "5gb", view.DataLimit)
	})

	t.Run("不正な項目は何も変えない", func(t *testing.T) {
		g, _, _ := newGenerator(t)
		before := g.View()

		err := g.Update(console.FormPatch{Quantity: ptr("3"), Duration: ptr("2h")})
		assert.True(t, errs.Is(err, errs.ErrValidation))

		err = g.Update(console.FormPatch{Quantity: ptr("3"), DataLimit: ptr("2gb")})
		assert.True(t, errs.Is(err, errs.ErrValidation))

		err = g.Update(console.FormPatch{Quantity: ptr("3"), ExpirationDate: ptr("15/06/2024")})
		assert.True(t, errs.Is(err, console.ErrInvalidExpirationDate))

		assert.Equal(t, before, g.View())
	})

	t.Run("数量はトリムして保存し送信時に検証", func(t *testing.T) {
		g, _, _ := newGenerator(t)
		require.NoError(t, g.Update(console.FormPatch{Quantity: ptr(" 250 ")}))
		assert.Equal(t, "250", g.View().Quantity)

		_, err := g.Submit(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrValidation))
		assert.NotEmpty(t, g.View().Error)
	})
}

func TestGenerator_Submit(t *testing.T) {
	t.Run("成功で結果を置き換え", func(t *testing.T) {
		g, gateway, _ := newGenerator(t)
		require.NoError(t, g.Update(console.FormPatch{Quantity: ptr("2"), DataLimit: ptr("unlimited")}))
		gateway.EXPECT().Generate(gomock.Any(), shared.GenerateRequest{
			Quantity:  "2",
			Duration:  "1h",
			DataLimit: "unlimited",
			ExpiresAt: time.Date(2024, 5, 1, 11, 15, 0, 0, time.UTC),
		}).Return(shared.GenerateResult{Codes: []string{"AAA111", "BBB222"}}, nil)

		n, err := g.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Vouchers Generated Successfully", n.Title)
		assert.Equal(t, "Generated 2 new vouchers", n.Message)

		view := g.View()
		assert.Equal(t, []string{"AAA111", "BBB222"}, view.Codes)
		assert.Equal(t, console.Badges{Status: "Active", Duration: "1h", DataLimit: "unlimited"}, view.Badges)
		assert.Empty(t, view.Error)
	})

	t.Run("一件生成のメッセージ", func(t *testing.T) {
		g, gateway, _ := newGenerator(t)
		gateway.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(shared.GenerateResult{Codes: []string{"ONLY01"}}, nil)
		n, err := g.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Generated 1 new voucher", n.Message)
	})

	t.Run("失敗時は前回の結果を保持", func(t *testing.T) {
		g, gateway, _ := newGenerator(t)
		gateway.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(shared.GenerateResult{Codes: []string{"OLD001"}}, nil)
		_, err := g.Submit(context.Background())
		require.NoError(t, err)

		gateway.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(shared.GenerateResult{}, errs.Mark(errs.New("status 500"), errs.ErrBackendRequestFailed))
		n, err := g.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, console.NotifyError, n.Kind)
		assert.Equal(t, []string{"OLD001"}, g.View().Codes)
		assert.Contains(t, g.View().Error, "status 500")
	})

	t.Run("一部作成は作成済みコードを表示", func(t *testing.T) {
		g, gateway, _ := newGenerator(t)
		gateway.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(shared.GenerateResult{Codes: []string{"PART01"}}, errs.Mark(errs.New("1 of 3 created"), errs.ErrPartialCreation))

		n, err := g.Submit(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrPartialCreation))
		assert.Equal(t, console.NotifyError, n.Kind)
		assert.Equal(t, []string{"PART01"}, g.View().Codes)
	})
}

func TestGenerator_ExportCSV(t *testing.T) {
	g, gateway, _ := newGenerator(t)

	_, _, err := g.ExportCSV()
	assert.True(t, errs.Is(err, console.ErrNothingToExport))
	assert.True(t, errs.Is(err, errs.ErrValidation))

	gateway.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(shared.GenerateResult{Codes: []string{"A1", "B2", "C3"}}, nil)
	_, err = g.Submit(context.Background())
	require.NoError(t, err)

	body, n, err := g.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, "A1\nB2\nC3", string(body))
	assert.Equal(t, "Vouchers Exported", n.Title)
	assert.Equal(t, "Voucher codes downloaded as CSV file", n.Message)
}
