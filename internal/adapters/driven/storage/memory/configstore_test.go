package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"garmin.username": "rider"},
		map[string]any{"device.product": int64(3122)},
	)

	assert.Equal(t, "rider", store.GetString("garmin.username"))
	assert.Equal(t, 3122, store.GetInt("device.product"))
	assert.Zero(t, store.Saves())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"str":      "value",
		"int":      7,
		"int64":    int64(8),
		"bool":     true,
		"strs":     []any{"a", 1, "b"},
		"ints":     []int{1, 2},
		"anyints":  []any{int64(3), "x", 4},
		"wrongint": "nine",
	})

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, 7, store.GetInt("int"))
	assert.Equal(t, 8, store.GetInt("int64"))
	assert.True(t, store.GetBool("bool"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("strs"))
	assert.Equal(t, []int{1, 2}, store.GetIntSlice("ints"))
	assert.Equal(t, []int{3, 4}, store.GetIntSlice("anyints"))

	assert.Zero(t, store.GetInt("wrongint"))
	assert.Empty(t, store.GetString("int"))
	assert.False(t, store.GetBool("str"))
	assert.Nil(t, store.GetIntSlice("str"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SetCountsSaves(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("watch.debounce", "2s"))
	require.NoError(t, store.Set("watch.debounce", "3s"))

	val, ok := store.Get("watch.debounce")
	assert.True(t, ok)
	assert.Equal(t, "3s", val)
	assert.Equal(t, 2, store.Saves())
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("key", n)
			_ = store.GetInt("key")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Saves())
}
