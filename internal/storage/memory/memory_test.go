package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbocharov/shortkv/internal/storage"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		s := New()

		_, err := s.Get(ctx, "missing")

		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		s := New()

		require.NoError(t, s.Put(ctx, "key", "value"))

		value, err := s.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})

	t.Run("put overwrites", func(t *testing.T) {
		s := New()

		require.NoError(t, s.Put(ctx, "key", "one"))
		require.NoError(t, s.Put(ctx, "key", "two"))

		value, err := s.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "two", value)
	})

	t.Run("put if absent", func(t *testing.T) {
		s := New()

		ok, err := s.PutIfAbsent(ctx, "key", "one")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.PutIfAbsent(ctx, "key", "two")
		require.NoError(t, err)
		assert.False(t, ok)

		value, err := s.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "one", value)
	})

	t.Run("delete is a no-op on absent keys", func(t *testing.T) {
		s := New()

		require.NoError(t, s.Put(ctx, "key", "value"))
		require.NoError(t, s.Delete(ctx, "key"))
		require.NoError(t, s.Delete(ctx, "key"))

		_, err := s.Get(ctx, "key")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		s := New()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Get(cancelled, "key")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
