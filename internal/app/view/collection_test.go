package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandr/kuliahku/internal/pkg/apperrors"
)

func TestCollectionRefresh(t *testing.T) {
	t.Run("installs the fetched snapshot", func(t *testing.T) {
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		}, SessionAuthenticated)

		require.NoError(t, c.Refresh(context.Background()))
		items, err := c.Items()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, items)
		assert.Equal(t, StateReady, c.State())
	})

	t.Run("is idempotent without intervening mutations", func(t *testing.T) {
		data := []string{"x", "y", "z"}
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			return data, nil
		}, SessionAuthenticated)

		require.NoError(t, c.Refresh(context.Background()))
		first, err := c.Items()
		require.NoError(t, err)

		require.NoError(t, c.Refresh(context.Background()))
		second, err := c.Items()
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("replaces the snapshot wholesale", func(t *testing.T) {
		snapshots := [][]string{{"a", "b", "c"}, {"b"}}
		call := 0
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			s := snapshots[call]
			call++
			return s, nil
		}, SessionAuthenticated)

		require.NoError(t, c.Refresh(context.Background()))
		require.NoError(t, c.Refresh(context.Background()))

		items, err := c.Items()
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, items)
	})

	t.Run("refuses to fetch before the session resolves", func(t *testing.T) {
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			t.Fatal("fetch must not run while the session is unknown")
			return nil, nil
		}, SessionUnknown)

		err := c.Refresh(context.Background())
		assert.ErrorIs(t, err, ErrSessionUnresolved)
	})

	t.Run("surfaces fetch failures as the error state", func(t *testing.T) {
		boom := errors.New("connection reset")
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			return nil, boom
		}, SessionAuthenticated)

		assert.ErrorIs(t, c.Refresh(context.Background()), boom)
		assert.Equal(t, StateError, c.State())
		_, err := c.Items()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("recovers from the error state on the next successful fetch", func(t *testing.T) {
		call := 0
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			call++
			if call == 1 {
				return nil, errors.New("transient")
			}
			return []string{"ok"}, nil
		}, SessionAuthenticated)

		require.Error(t, c.Refresh(context.Background()))
		require.NoError(t, c.Refresh(context.Background()))

		items, err := c.Items()
		require.NoError(t, err)
		assert.Equal(t, []string{"ok"}, items)
	})
}

func TestCollectionLatestFetchWins(t *testing.T) {
	// A slow fetch that started first must not overwrite the result of a
	// newer fetch that already completed.
	release := make(chan struct{})
	call := 0
	var mu sync.Mutex
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			<-release
			return []string{"stale"}, nil
		}
		return []string{"fresh"}, nil
	}, SessionAuthenticated)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Refresh(context.Background())
	}()

	// Wait for the slow fetch to be in flight, then complete a newer one.
	for {
		mu.Lock()
		started := call >= 1
		mu.Unlock()
		if started {
			break
		}
	}
	require.NoError(t, c.Refresh(context.Background()))

	close(release)
	wg.Wait()

	items, err := c.Items()
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, items)
}

func TestCollectionSession(t *testing.T) {
	t.Run("unauthenticated reads fail distinctly", func(t *testing.T) {
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			return []string{"a"}, nil
		}, SessionUnauthenticated)

		_, err := c.Items()
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
		assert.ErrorIs(t, c.Refresh(context.Background()), apperrors.ErrAuthenticationRequired)
	})

	t.Run("signing out clears the snapshot", func(t *testing.T) {
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			return []string{"a"}, nil
		}, SessionAuthenticated)
		require.NoError(t, c.Refresh(context.Background()))

		c.SetSession(SessionUnauthenticated)

		_, err := c.Items()
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
	})

	t.Run("resolving the session enables fetching", func(t *testing.T) {
		c := NewCollection(func(ctx context.Context) ([]string, error) {
			return []string{"a"}, nil
		}, SessionUnknown)

		require.ErrorIs(t, c.Refresh(context.Background()), ErrSessionUnresolved)

		c.SetSession(SessionAuthenticated)
		require.NoError(t, c.Refresh(context.Background()))

		items, err := c.Items()
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, items)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("creates one collection per owner", func(t *testing.T) {
		r := NewRegistry(func(ctx context.Context, ownerID string) ([]string, error) {
			return []string{ownerID}, nil
		})

		a := r.ForOwner("user-a")
		b := r.ForOwner("user-b")
		assert.NotSame(t, a, b)
		assert.Same(t, a, r.ForOwner("user-a"))

		require.NoError(t, a.Refresh(context.Background()))
		items, err := a.Items()
		require.NoError(t, err)
		assert.Equal(t, []string{"user-a"}, items)
	})

	t.Run("drop tears down the owner's collection", func(t *testing.T) {
		r := NewRegistry(func(ctx context.Context, ownerID string) ([]string, error) {
			return []string{"data"}, nil
		})

		c := r.ForOwner("user-a")
		require.NoError(t, c.Refresh(context.Background()))

		r.Drop("user-a")

		// The dropped collection is unauthenticated; a new one starts fresh.
		_, err := c.Items()
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
		assert.NotSame(t, c, r.ForOwner("user-a"))
	})
}
