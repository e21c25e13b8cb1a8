package allowlist

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "trusted_numbers.json"))
}

func TestStore_Add(t *testing.T) {
	t.Run("valid number is persisted", func(t *testing.T) {
		store := tempStore(t)

		added, err := store.Add("+46701234567")
		require.NoError(t, err)
		assert.True(t, added)

		numbers, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"+46701234567"}, numbers)
	})

	t.Run("re-adding is idempotent", func(t *testing.T) {
		store := tempStore(t)

		added, err := store.Add("+46701234567")
		require.NoError(t, err)
		assert.True(t, added)

		added, err = store.Add("+46701234567")
		require.NoError(t, err)
		assert.False(t, added)

		numbers, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, numbers, 1)
	})

	t.Run("rejects number without plus", func(t *testing.T) {
		store := tempStore(t)

		_, err := store.Add("46701234567")
		assert.ErrorIs(t, err, ErrInvalidNumber)
	})

	t.Run("rejects too long number", func(t *testing.T) {
		store := tempStore(t)

		_, err := store.Add("+1234567890123456") // 17 characters
		assert.ErrorIs(t, err, ErrInvalidNumber)

		_, err = store.Load()
		assert.ErrorIs(t, err, ErrStoreUnavailable, "nothing should have been written")
	})
}

func TestStore_Remove(t *testing.T) {
	store := tempStore(t)

	_, err := store.Add("+46701234567")
	require.NoError(t, err)

	t.Run("removes present number", func(t *testing.T) {
		removed, err := store.Remove("+46701234567")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.False(t, store.Contains("+46701234567"))
	})

	t.Run("absent number is not an error", func(t *testing.T) {
		removed, err := store.Remove("+46709999999")
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestStore_RoundTrip(t *testing.T) {
	// The loaded set must match what was written regardless of insertion order.
	first := tempStore(t)
	second := tempStore(t)

	for _, n := range []string{"+46701234567", "+46709999999", "+4687654321"} {
		_, err := first.Add(n)
		require.NoError(t, err)
	}
	for _, n := range []string{"+4687654321", "+46701234567", "+46709999999"} {
		_, err := second.Add(n)
		require.NoError(t, err)
	}

	a, err := first.Load()
	require.NoError(t, err)
	b, err := second.Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, a, b)
}

func TestStore_LoadFailsSoft(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		store := tempStore(t)

		numbers, err := store.Load()
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Empty(t, numbers)
		assert.False(t, store.Contains("+46701234567"))
	})

	t.Run("corrupt document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trusted_numbers.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		store := NewStore(path)

		numbers, err := store.Load()
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Empty(t, numbers)
		assert.False(t, store.Contains("+46701234567"))
	})
}

func TestStore_Contains(t *testing.T) {
	store := tempStore(t)

	_, err := store.Add("+46701234567")
	require.NoError(t, err)

	assert.True(t, store.Contains("+46701234567"))
	assert.False(t, store.Contains("+46709999999"))
	assert.False(t, store.Contains(""), "empty caller never matches")
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := tempStore(t)
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Add(fmt.Sprintf("+4670123%04d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	numbers, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, numbers, n, "no adds may be lost under concurrency")
}

func TestStore_Merge(t *testing.T) {
	store := tempStore(t)

	_, err := store.Add("+46701234567")
	require.NoError(t, err)

	added, err := store.Merge([]string{"+46701234567", "+46709999999", "+4687654321"}, "Imported from numbers.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	numbers, err := store.Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"+46701234567", "+46709999999", "+4687654321"}, numbers)
}
