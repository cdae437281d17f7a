//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haven/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	s := NewRedisStore(rc.Client)

	t.Run("inactive by default", func(t *testing.T) {
		active, err := s.IsActive(ctx, "user_1")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("activate then check", func(t *testing.T) {
		require.NoError(t, s.Activate(ctx, "user_1", time.Minute))

		active, err := s.IsActive(ctx, "user_1")
		require.NoError(t, err)
		assert.True(t, active)

		active, err = s.IsActive(ctx, "user_2")
		require.NoError(t, err)
		assert.False(t, active, "flags are per user")
	})

	t.Run("flag expires with the TTL", func(t *testing.T) {
		require.NoError(t, s.Activate(ctx, "user_ttl", 500*time.Millisecond))

		active, err := s.IsActive(ctx, "user_ttl")
		require.NoError(t, err)
		require.True(t, active)

		time.Sleep(700 * time.Millisecond)

		active, err = s.IsActive(ctx, "user_ttl")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("empty user id is a no-op", func(t *testing.T) {
		require.NoError(t, s.Activate(ctx, "", time.Minute))
		active, err := s.IsActive(ctx, "")
		require.NoError(t, err)
		assert.False(t, active)
	})
}
