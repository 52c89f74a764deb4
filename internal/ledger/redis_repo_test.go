package ledger

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRepository(client), mr
}

func TestLoad_NoLedgerYieldsEmptySet(t *testing.T) {
	repo, _ := newTestRepo(t)

	eventIDs, err := repo.Load(context.Background(), "new-user")
	require.NoError(t, err)
	assert.NotNil(t, eventIDs)
	assert.Empty(t, eventIDs)
}

func TestLoad_CorruptPayload(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set("registeredEvents_u1", "not-json"))

	_, err := repo.Load(context.Background(), "u1")
	assert.Error(t, err)
}

func TestRegister_PersistsBeforeReturning(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	eventIDs, err := repo.Register(ctx, "u1", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, eventIDs)

	// The primary record is a JSON array under the per-user key.
	raw, err := mr.Get("registeredEvents_u1")
	require.NoError(t, err)
	assert.JSONEq(t, `["3"]`, raw)

	// A fresh read observes the registration immediately.
	ok, err := repo.IsRegistered(ctx, "u1", "3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_Idempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Register(ctx, "u1", "2")
	require.NoError(t, err)

	second, err := repo.Register(ctx, "u1", "2")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	n, err := repo.CountForEvent(ctx, "2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRegister_AccumulatesAndPreservesOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"1", "4", "2"} {
		_, err := repo.Register(ctx, "u1", id)
		require.NoError(t, err)
	}

	eventIDs, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4", "2"}, eventIDs)
}

func TestLedgersAreIsolatedPerUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Register(ctx, "u1", "1")
	require.NoError(t, err)
	_, err = repo.Register(ctx, "u2", "5")
	require.NoError(t, err)

	u1, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, u1)

	ok, err := repo.IsRegistered(ctx, "u2", "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountForEvent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, uid := range []string{"u1", "u2", "u3"} {
		_, err := repo.Register(ctx, uid, "6")
		require.NoError(t, err)
	}

	n, err := repo.CountForEvent(ctx, "6")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repo.CountForEvent(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
