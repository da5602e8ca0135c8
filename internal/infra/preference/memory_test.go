//go:build unit

package preference_test

import (
	"context"
	"testing"
	"time"

	"voucher-console/internal/infra/preference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("no value received")
		return ""
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get and set", func(t *testing.T) {
		store := preference.NewMemoryStore()
		_, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Set(ctx, "k", "v"))
		v, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})

	t.Run("subscribers see changes of their key only", func(t *testing.T) {
		store := preference.NewMemoryStore()
		a, unsubA := store.Subscribe("a")
		defer unsubA()
		b, unsubB := store.Subscribe("b")
		defer unsubB()

		require.NoError(t, store.Set(ctx, "a", "1"))
		assert.Equal(t, "1", receive(t, a))
		select {
		case v := <-b:
			t.Fatalf("unexpected value %q on b", v)
		default:
		}
	})

	t.Run("unchanged value is not republished", func(t *testing.T) {
		store := preference.NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", "same"))

		ch, unsub := store.Subscribe("k")
		defer unsub()
		require.NoError(t, store.Set(ctx, "k", "same"))
		select {
		case v := <-ch:
			t.Fatalf("unexpected value %q", v)
		default:
		}
	})

	t.Run("slow reader gets the latest value", func(t *testing.T) {
		store := preference.NewMemoryStore()
		ch, unsub := store.Subscribe("k")
		defer unsub()

		for _, v := range []string{"1", "2", "3"} {
			require.NoError(t, store.Set(ctx, "k", v))
		}
		assert.Equal(t, "3", receive(t, ch))
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		store := preference.NewMemoryStore()
		ch, unsub := store.Subscribe("k")
		unsub()
		unsub()
		_, ok := <-ch
		assert.False(t, ok)
	})

	t.Run("close ends every subscription", func(t *testing.T) {
		store := preference.NewMemoryStore()
		ch, unsub := store.Subscribe("k")
		store.Close()
		_, ok := <-ch
		assert.False(t, ok)
		unsub()
	})
}
