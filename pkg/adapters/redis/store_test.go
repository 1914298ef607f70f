package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/adapters/redis"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

func newTestStore(t *testing.T, opts ...redisadapter.Option) (*redisadapter.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redisadapter.NewFromClient(client, opts...), mr
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	pctx := domain.NewProcessContext("create_task", "s1", domain.UserContext{UserID: "u1", Role: "member"}, "collect")
	pctx.Slots["title"] = "demo"
	pctx.AwaitingInput = true
	pctx.AwaitingSlot = "clientId"

	require.NoError(t, store.Save(ctx, "s1", pctx))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "create_task", loaded.ProcessID)
	assert.Equal(t, "demo", loaded.Slots["title"])
	assert.True(t, loaded.AwaitingInput)
	assert.Equal(t, "clientId", loaded.AwaitingSlot)
	assert.Equal(t, "u1", loaded.User.UserID)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewProcessContext("p", "s1", domain.UserContext{}, "x")))
	assert.True(t, mr.Exists("aurin:session:s1"))

	require.NoError(t, store.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("aurin:session:s1"))
}

func TestRedisStore_List(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", domain.NewProcessContext("p", "a", domain.UserContext{}, "x")))
	require.NoError(t, store.Save(ctx, "b", domain.NewProcessContext("p", "b", domain.UserContext{}, "x")))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, sessions)
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	store, mr := newTestStore(t, redisadapter.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewProcessContext("p", "s1", domain.UserContext{}, "x")))
	assert.True(t, mr.Exists("custom:s1"))
}

func TestRedisStore_TTLExpiresContexts(t *testing.T) {
	store, mr := newTestStore(t, redisadapter.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewProcessContext("p", "s1", domain.UserContext{}, "x")))

	// miniredis advances TTLs manually.
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
