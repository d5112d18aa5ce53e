package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finconnect/portal/internal/models"
	"github.com/finconnect/portal/internal/storage"
)

func TestMemory_SetGetRemove(t *testing.T) {
	store := storage.NewMemory()

	user := models.User{
		ID:    "user-123",
		Email: "user@example.com",
		Name:  "Demo User",
		Role:  models.RoleDeveloper,
	}

	require.NoError(t, store.Set(storage.KeyUser, user))

	var got models.User
	require.NoError(t, store.Get(storage.KeyUser, &got))
	assert.Equal(t, user, got)

	require.NoError(t, store.Remove(storage.KeyUser))
	err := store.Get(storage.KeyUser, &got)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemory_GetMissingKey(t *testing.T) {
	store := storage.NewMemory()

	var token string
	err := store.Get(storage.KeyToken, &token)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemory_RemoveMissingKeyIsNoop(t *testing.T) {
	store := storage.NewMemory()
	assert.NoError(t, store.Remove(storage.KeySubscription))
}

func TestMemory_OverwriteValue(t *testing.T) {
	store := storage.NewMemory()

	require.NoError(t, store.Set(storage.KeyToken, "first"))
	require.NoError(t, store.Set(storage.KeyToken, "second"))

	var got string
	require.NoError(t, store.Get(storage.KeyToken, &got))
	assert.Equal(t, "second", got)
}
