//go:build unit

package console_test

import (
	"context"
	"testing"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/console"
	"voucher-console/tests/common/builder"
	sharedmock "voucher-console/tests/mock/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCard(t *testing.T, v voucher.Voucher) (*console.Card, *sharedmock.MockVoucherGateway) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gateway := sharedmock.NewMockVoucherGateway(ctrl)
	return console.NewCard(v, commands.NewVoucherCommands(gateway, config.NewTestConfig())), gateway
}

func TestCard_ToggleEnabled(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("有効は無効にローカル反映", func(t *testing.T) {
		card, gateway := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		gateway.EXPECT().UpdateStatus(gomock.Any(), "v-1", voucher.StatusDisabled).Return(nil)

		n, err := card.ToggleEnabled(context.Background())
		require.NoError(t, err)
		assert.Equal(t, console.NotifySuccess, n.Kind)
		assert.Equal(t, "Voucher disabled", n.Title)
		assert.Equal(t, "Voucher code ABC123 is now disabled.", n.Message)

		view := card.View(now)
		assert.Equal(t, "disabled", view.Status)
		assert.Equal(t, "active", view.ServerStatus)
		assert.True(t, view.Overridden)
		assert.False(t, view.Enabled)
		assert.True(t, view.CanToggle)
	})

	t.Run("二回切り替えると有効に戻る", func(t *testing.T) {
		card, gateway := newCard(t, builder.NewVoucherBuilder().WithStatus(voucher.StatusDisabled).BuildDomain())
		gateway.EXPECT().UpdateStatus(gomock.Any(), "v-1", voucher.StatusActive).Return(nil)
		gateway.EXPECT().UpdateStatus(gomock.Any(), "v-1", voucher.StatusDisabled).Return(nil)

		n, err := card.ToggleEnabled(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Voucher enabled", n.Title)
		assert.Equal(t, voucher.StatusActive, card.Status())

		_, err = card.ToggleEnabled(context.Background())
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusDisabled, card.Status())
	})

	t.Run("バックエンド失敗時は状態を維持", func(t *testing.T) {
		card, gateway := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		gateway.EXPECT().UpdateStatus(gomock.Any(), "v-1", voucher.StatusDisabled).
			Return(errs.Mark(errs.New("status 500"), errs.ErrBackendRequestFailed))

		n, err := card.ToggleEnabled(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrBackendRequestFailed))
		assert.Equal(t, console.NotifyError, n.Kind)
		assert.Equal(t, "Error", n.Title)
		assert.Equal(t, voucher.StatusActive, card.Status())
		assert.False(t, card.View(now).Overridden)
	})

	for _, s := range []voucher.Status{voucher.StatusUsed, voucher.StatusExpired, voucher.StatusPending} {
		t.Run(string(s)+" は切り替え不可", func(t *testing.T) {
			card, _ := newCard(t, builder.NewVoucherBuilder().WithStatus(s).BuildDomain())
			_, err := card.ToggleEnabled(context.Background())
			assert.ErrorIs(t, err, voucher.ErrToggleNotAllowed)
			assert.False(t, card.View(now).CanToggle)
		})
	}

	t.Run("処理中の二重切り替えは拒否", func(t *testing.T) {
		card, gateway := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		started := make(chan struct{})
		release := make(chan struct{})
		gateway.EXPECT().UpdateStatus(gomock.Any(), "v-1", voucher.StatusDisabled).DoAndReturn(
			func(context.Context, string, voucher.Status) error {
				close(started)
				<-release
				return nil
			})

		done := make(chan error, 1)
		go func() {
			_, err := card.ToggleEnabled(context.Background())
			done <- err
		}()
		<-started

		assert.True(t, card.View(now).InFlight)
		assert.False(t, card.View(now).CanToggle)
		_, err := card.ToggleEnabled(context.Background())
		assert.ErrorIs(t, err, console.ErrRequestInFlight)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, card.View(now).InFlight)
	})
}

func TestCard_Delete(t *testing.T) {
	t.Run("確認ダイアログなしの削除は不可", func(t *testing.T) {
		card, _ := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		_, err := card.ConfirmDelete(context.Background())
		assert.ErrorIs(t, err, console.ErrDeleteNotConfirmed)
	})

	t.Run("キャンセルはリクエストせずにダイアログを閉じる", func(t *testing.T) {
		card, _ := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		card.RequestDelete()
		assert.True(t, card.View(time.Now()).ConfirmOpen)
		card.CancelDelete()
		assert.False(t, card.View(time.Now()).ConfirmOpen)
		_, err := card.ConfirmDelete(context.Background())
		assert.ErrorIs(t, err, console.ErrDeleteNotConfirmed)
	})

	t.Run("確認済みの削除", func(t *testing.T) {
		card, gateway := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		gateway.EXPECT().Delete(gomock.Any(), "v-1").Return(nil)

		card.RequestDelete()
		n, err := card.ConfirmDelete(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Voucher deleted", n.Title)
		assert.Equal(t, "Voucher code ABC123 has been deleted.", n.Message)
		assert.False(t, card.View(time.Now()).ConfirmOpen)
	})

	t.Run("削除失敗でもダイアログを閉じる", func(t *testing.T) {
		card, gateway := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		gateway.EXPECT().Delete(gomock.Any(), "v-1").Return(errs.Wrap(errs.ErrVoucherNotFound, "voucher v-1"))

		card.RequestDelete()
		n, err := card.ConfirmDelete(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrVoucherNotFound))
		assert.Equal(t, console.NotifyError, n.Kind)
		assert.False(t, card.View(time.Now()).ConfirmOpen)
	})
}

func TestCard_CopyCode(t *testing.T) {
	card, _ := newCard(t, builder.NewVoucherBuilder().BuildDomain())
	code, n := card.CopyCode()
	assert.Equal(t, "ABC123", code)
	assert.Equal(t, console.NotifySuccess, n.Kind)
	assert.Equal(t, "Copied to clipboard", n.Title)
	assert.Equal(t, "Voucher code ABC123 copied successfully", n.Message)
}

func TestCard_View(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("使用済みはカウントダウン", func(t *testing.T) {
		v := builder.NewVoucherBuilder().
			WithStatus(voucher.StatusUsed).
			WithUsage(now.Add(-time.Hour), now.Add(90*time.Minute)).
			BuildDomain()
		card, _ := newCard(t, v)
		view := card.View(now)
		assert.Equal(t, "countdown", view.ExpiryMode)
		assert.Equal(t, "1h 30m 0s", view.ExpiryText)
		assert.Equal(t, "USED", view.StatusLabel)
		assert.Equal(t, "bg-blue-100 text-blue-800 border-blue-200", view.PaletteClass)
	})

	t.Run("未使用は未開始", func(t *testing.T) {
		card, _ := newCard(t, builder.NewVoucherBuilder().BuildDomain())
		view := card.View(now)
		assert.Equal(t, "not_started", view.ExpiryMode)
		assert.Equal(t, "Not started", view.ExpiryText)
		assert.Equal(t, "-", view.UsedAt)
		assert.True(t, view.Enabled)
	})
}
