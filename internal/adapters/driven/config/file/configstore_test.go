package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[garmin]
username = "rider@example.com"
uploads_per_minute = 12

[device]
manufacturer = 1
product = 3122
third_party = [32, 260]

[rewrite]
drop_messages = [21]

[watch]
debounce = "3s"
initial_scan = false
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestNewConfigStoreFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "custom.toml")

	store, err := NewConfigStoreFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestConfigStore_LoadsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, sampleConfig)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "rider@example.com", store.GetString("garmin.username"))
	assert.Equal(t, 12, store.GetInt("garmin.uploads_per_minute"))
	assert.Equal(t, 3122, store.GetInt("device.product"))
	assert.Equal(t, []int{32, 260}, store.GetIntSlice("device.third_party"))
	assert.Equal(t, []int{21}, store.GetIntSlice("rewrite.drop_messages"))
	assert.Equal(t, "3s", store.GetString("watch.debounce"))
	assert.False(t, store.GetBool("watch.initial_scan"))

	_, ok := store.Get("watch.initial_scan")
	assert.True(t, ok)
}

func TestConfigStore_TypeMismatches(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, sampleConfig)
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, store.GetString("device.product"))
	assert.Zero(t, store.GetInt("garmin.username"))
	assert.False(t, store.GetBool("garmin.username"))
	assert.Nil(t, store.GetIntSlice("garmin.username"))
	assert.Nil(t, store.GetStringSlice("garmin.username"))
	assert.Nil(t, store.GetIntSlice("missing"))
}

func TestConfigStore_GetIntSlice(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	store.mu.Lock()
	store.data["ints"] = []int{1, 2}
	store.data["int64s"] = []int64{3, 4}
	store.data["mixed"] = []any{int64(5), "six", 7}
	store.mu.Unlock()

	assert.Equal(t, []int{1, 2}, store.GetIntSlice("ints"))
	assert.Equal(t, []int{3, 4}, store.GetIntSlice("int64s"))
	assert.Equal(t, []int{5, 7}, store.GetIntSlice("mixed"))
}

func TestConfigStore_SetPersists(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("garmin.username", "rider"))
	require.NoError(t, store1.Set("garmin.uploads_per_minute", 10))
	require.NoError(t, store1.Set("watch.initial_scan", true))
	require.NoError(t, store1.Set("device.third_party", []int{32}))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "rider", store2.GetString("garmin.username"))
	assert.Equal(t, 10, store2.GetInt("garmin.uploads_per_minute"))
	assert.True(t, store2.GetBool("watch.initial_scan"))
	assert.Equal(t, []int{32}, store2.GetIntSlice("device.third_party"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("garmin.password", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "# nothing configured yet\n")

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("garmin.username")
	assert.False(t, ok)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "this is not valid TOML {{{[[")

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("garmin.username", "rider"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Save())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetIntSlice(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"garmin": map[string]any{"username": "rider"},
		"top":    1,
	}, "")

	assert.Equal(t, map[string]any{"garmin.username": "rider", "top": 1}, flat)
}
