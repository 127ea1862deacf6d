package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-market/models"
)

func newTestSessionStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStoreFromClient(client, time.Hour), mr
}

func TestSessionSaveLoad(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, &models.Session{
		UserID: SampleOwnerSarah,
		Name:   "Sarah Johnson",
		Role:   models.RoleOwner,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Token)
	assert.True(t, mr.Exists(sessionKey(saved.Token)))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey(saved.Token)))

	loaded, err := store.Load(ctx, saved.Token)
	require.NoError(t, err)
	assert.Equal(t, SampleOwnerSarah, loaded.UserID)
	assert.Equal(t, models.RoleOwner, loaded.Role)
}

func TestSessionLoadUnknown(t *testing.T) {
	store, _ := newTestSessionStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, &models.Session{UserID: SampleOwnerEmma, Role: models.RoleOwner})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx, saved.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDelete(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, &models.Session{UserID: SampleOwnerEmma, Role: models.RoleOwner})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved.Token))
	_, err = store.Load(ctx, saved.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "already-gone"))
}
