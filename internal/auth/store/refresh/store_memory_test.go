package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"refeitorio/internal/auth/models"
	"refeitorio/pkg/platform/sentinel"
)

func TestInMemoryFind(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	live := &models.RefreshToken{
		Token:     "live-token",
		UserID:    uuid.New(),
		Device:    "Chrome on Linux",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Create(ctx, live))

	t.Run("live record is returned", func(t *testing.T) {
		got, err := store.Find(ctx, "live-token")
		require.NoError(t, err)
		require.Equal(t, live.UserID, got.UserID)
		require.Equal(t, live.Device, got.Device)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		_, err := store.Find(ctx, "no-such-token")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("record past its expiry surfaces as expired", func(t *testing.T) {
		stale := &models.RefreshToken{
			Token:     "stale-token",
			UserID:    uuid.New(),
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, store.Create(ctx, stale))

		_, err := store.Find(ctx, "stale-token")
		require.ErrorIs(t, err, sentinel.ErrExpired)

		// Expired rows can still be deleted.
		require.NoError(t, store.Delete(ctx, "stale-token"))
	})
}
