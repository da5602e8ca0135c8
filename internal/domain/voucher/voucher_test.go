//go:build unit

package voucher_test

import (
	"context"
	"testing"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/pkg/clock"
	"voucher-console/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestRemaining(t *testing.T) {
	cases := []struct {
		name string
		diff time.Duration
		want string
	}{
		{name: "時分秒を切り捨て", diff: time.Hour + time.Minute + time.Second + 999*time.Millisecond, want: "1h 1m 1s"},
		{name: "24時間を超えても時で表示", diff: 26*time.Hour + 5*time.Second, want: "26h 0m 5s"},
		{name: "1秒未満", diff: 500 * time.Millisecond, want: "0h 0m 0s"},
		{name: "ちょうど期限", diff: 0, want: voucher.ExpiredLabel},
		{name: "期限切れ", diff: -time.Minute, want: voucher.ExpiredLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, voucher.Remaining(base, base.Add(tc.diff)))
		})
	}
}

func TestExpiryFrom(t *testing.T) {
	cases := []struct {
		shorthand string
		want      time.Time
	}{
		{shorthand: "30m", want: base.Add(30 * time.Minute)},
		{shorthand: "1h", want: base.Add(time.Hour)},
		{shorthand: "24h", want: base.Add(24 * time.Hour)},
		{shorthand: "7d", want: base.AddDate(0, 0, 7)},
		{shorthand: "30d", want: base.AddDate(0, 0, 30)},
		{shorthand: "", want: base},
		{shorthand: "2w", want: base},
		{shorthand: "h", want: base},
	}
	for _, tc := range cases {
		t.Run(tc.shorthand, func(t *testing.T) {
			assert.True(t, tc.want.Equal(voucher.ExpiryFrom(base, tc.shorthand)))
		})
	}

	t.Run("日単位は暦で進める", func(t *testing.T) {
		loc := time.FixedZone("X", 9*60*60)
		now := time.Date(2024, 1, 31, 8, 15, 0, 0, loc)
		got := voucher.ExpiryFrom(now, "30d")
		assert.Equal(t, time.Date(2024, 3, 1, 8, 15, 0, 0, loc), got)
	})
}

func TestWithPickedDate(t *testing.T) {
	now := time.Date(2024, 5, 1, 14, 30, 15, 0, time.UTC)

	t.Run("時刻はそのまま日付だけ置換", func(t *testing.T) {
		got, ok := voucher.WithPickedDate(now, "2024-06-10")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 6, 10, 14, 30, 15, 0, time.UTC), got)
	})

	t.Run("範囲外の日は正規化", func(t *testing.T) {
		got, ok := voucher.WithPickedDate(now, "2023-02-30")
		require.True(t, ok)
		assert.Equal(t, time.Date(2023, 3, 2, 14, 30, 15, 0, time.UTC), got)
	})

	t.Run("不正な形式NG", func(t *testing.T) {
		for _, raw := range []string{"", "2024-06", "June 10", "2024-xx-10"} {
			got, ok := voucher.WithPickedDate(now, raw)
			assert.False(t, ok, raw)
			assert.Equal(t, now, got)
		}
	})
}

func TestFormatISO(t *testing.T) {
	loc := time.FixedZone("X", 2*60*60)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 123456789, loc)
	assert.Equal(t, "2024-05-01T10:00:00.123Z", voucher.FormatISO(ts))
	assert.Equal(t, "2024-05-01", voucher.DateField(ts))
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want *time.Time
	}{
		{raw: "2024-05-01T12:00:00Z", want: &base},
		{raw: "2024-05-01T12:00:00.000Z", want: &base},
		{raw: "2024-05-01T12:00:00", want: &base},
		{raw: "2024-05-01 12:00:00", want: &base},
		{raw: "", want: nil},
		{raw: "yesterday", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := voucher.ParseTimestamp(tc.raw)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "got %s", got)
		})
	}
}

func TestStatus(t *testing.T) {
	t.Run("表記ゆれを正規化", func(t *testing.T) {
		assert.Equal(t, voucher.StatusActive, voucher.ParseStatus(" Active "))
		assert.Equal(t, "ACTIVE", voucher.StatusActive.Label())
		assert.False(t, voucher.ParseStatus("archived").IsKnown())
	})

	t.Run("切替可能なのは active と disabled のみ", func(t *testing.T) {
		got, err := voucher.Toggled(voucher.StatusActive)
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusDisabled, got)

		got, err = voucher.Toggled(voucher.StatusDisabled)
		require.NoError(t, err)
		assert.Equal(t, voucher.StatusActive, got)

		for _, s := range []voucher.Status{voucher.StatusUsed, voucher.StatusExpired, voucher.StatusPending, "archived"} {
			assert.False(t, voucher.CanToggle(s), s)
			_, err := voucher.Toggled(s)
			assert.ErrorIs(t, err, voucher.ErrToggleNotAllowed)
		}
	})

	t.Run("配色", func(t *testing.T) {
		assert.Equal(t, "bg-green-100 text-green-800 border-green-200", voucher.PaletteFor(voucher.StatusActive).Class())
		assert.Equal(t, voucher.PaletteFor(voucher.StatusDisabled), voucher.PaletteFor("archived"))
	})
}

func TestDescribeExpiry(t *testing.T) {
	now := base
	expires := now.Add(90 * time.Minute)

	t.Run("使用済みはカウントダウン", func(t *testing.T) {
		v := builder.NewVoucherBuilder().WithUsage(now.Add(-30*time.Minute), expires).BuildDomain()
		got := voucher.DescribeExpiry(v, v.Status, now)
		assert.Equal(t, voucher.ExpiryDisplay{Mode: voucher.ExpiryCountdown, Text: "1h 30m 0s"}, got)
	})

	t.Run("未使用で期限ありは日時表示", func(t *testing.T) {
		v := builder.NewVoucherBuilder().With(func(b *builder.VoucherBuilder) { b.ExpiresAt = &expires }).BuildDomain()
		got := voucher.DescribeExpiry(v, v.Status, now)
		assert.Equal(t, voucher.ExpiryAbsolute, got.Mode)
		assert.Equal(t, voucher.FormatDate(&expires), got.Text)
	})

	t.Run("期限なし", func(t *testing.T) {
		v := builder.NewVoucherBuilder().BuildDomain()
		got := voucher.DescribeExpiry(v, v.Status, now)
		assert.Equal(t, voucher.ExpiryDisplay{Mode: voucher.ExpiryNotStarted, Text: voucher.NotStartedLabel}, got)
		assert.Equal(t, "-", voucher.FormatDate(nil))
	})
}

func TestMatchesCode(t *testing.T) {
	v := builder.NewVoucherBuilder().WithID("v-1", "WiFi-7XQ2").BuildDomain()
	assert.True(t, v.MatchesCode(""))
	assert.True(t, v.MatchesCode("7xq"))
	assert.True(t, v.MatchesCode("WIFI"))
	assert.False(t, v.MatchesCode("zz"))
}

func TestValidateBatch(t *testing.T) {
	cases := []struct {
		name     string
		quantity string
		duration string
		limit    string
		errIs    error
	}{
		{name: "下限OK", quantity: "1", duration: "1h", limit: "1gb"},
		{name: "上限OK", quantity: "100", duration: "30d", limit: "unlimited"},
		{name: "前後の空白OK", quantity: " 5 ", duration: "30m", limit: "100mb"},
		{name: "0はNG", quantity: "0", duration: "1h", limit: "1gb", errIs: voucher.ErrInvalidQuantity},
		{name: "101はNG", quantity: "101", duration: "1h", limit: "1gb", errIs: voucher.ErrInvalidQuantity},
		{name: "小数はNG", quantity: "2.5", duration: "1h", limit: "1gb", errIs: voucher.ErrInvalidQuantity},
		{name: "空はNG", quantity: "", duration: "1h", limit: "1gb", errIs: voucher.ErrInvalidQuantity},
		{name: "未定義の期間NG", quantity: "1", duration: "2h", limit: "1gb", errIs: voucher.ErrInvalidDuration},
		{name: "未定義の容量NG", quantity: "1", duration: "1h", limit: "2gb", errIs: voucher.ErrInvalidDataLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := voucher.ValidateBatch(tc.quantity, tc.duration, tc.limit)
			if tc.errIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestCountdown(t *testing.T) {
	t.Run("Expired を出して停止", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		expires := base.Add(2 * time.Second)
		cd := voucher.NewCountdown(clk, time.Millisecond)

		var got []string
		cd.Run(context.Background(), &expires, func(s string) {
			got = append(got, s)
			clk.Add(time.Second)
		})

		want := []string{"0h 0m 2s", "0h 0m 1s", voucher.ExpiredLabel}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("published mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("キャンセルで停止", func(t *testing.T) {
		clk := clock.NewMockClock(base)
		expires := base.Add(time.Hour)
		cd := voucher.NewCountdown(clk, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		cd.Run(ctx, &expires, func(string) {
			calls++
			cancel()
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("期限なしは何も出さない", func(t *testing.T) {
		cd := voucher.NewCountdown(clock.NewMockClock(base), 0)
		cd.Run(context.Background(), nil, func(string) { t.Fatal("unexpected publish") })
	})
}
