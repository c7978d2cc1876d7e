package denylist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestDenylist(t *testing.T) (*Denylist, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb), mr
}

func TestDenylist_AddAndContains(t *testing.T) {
	d, _ := newTestDenylist(t)
	ctx := context.Background()

	ok, err := d.Contains(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, d.Add(ctx, "token-a", 15*time.Minute))

	ok, err = d.Contains(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, ok)

	// Other tokens are unaffected.
	ok, err = d.Contains(ctx, "token-b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDenylist_EntriesExpireWithTTL(t *testing.T) {
	d, mr := newTestDenylist(t)
	ctx := context.Background()

	require.NoError(t, d.Add(ctx, "token-a", 15*time.Minute))

	mr.FastForward(16 * time.Minute)

	ok, err := d.Contains(ctx, "token-a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDenylist_Ping(t *testing.T) {
	d, mr := newTestDenylist(t)

	require.NoError(t, d.Ping(context.Background()))

	mr.Close()
	require.Error(t, d.Ping(context.Background()))
}
