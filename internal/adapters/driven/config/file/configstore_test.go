package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://hub.example.com"))
	require.NoError(t, store.Set("fetch.max_retries", 5))
	require.NoError(t, store.Set("fetch.rate_per_second", 2.5))
	require.NoError(t, store.Set("cache.enabled", true))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("api.base_url"), "https://hub.example.com"},
		{"int", store.GetInt("fetch.max_retries"), 5},
		{"float", store.GetFloat("fetch.rate_per_second"), 2.5},
		{"int as float", store.GetFloat("fetch.max_retries"), 5.0},
		{"bool", store.GetBool("cache.enabled"), true},
		{"missing string", store.GetString("nope"), ""},
		{"wrong type int", store.GetInt("api.base_url"), 0},
		{"wrong type bool", store.GetBool("fetch.max_retries"), false},
		{"wrong type float", store.GetFloat("cache.enabled"), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://hub.example.com"))
	require.NoError(t, store.Set("fetch.max_retries", 4))
	require.NoError(t, store.Set("fetch.rate_per_second", 1.5))
	require.NoError(t, store.Set("viewer.search_limit", 30))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[fetch]")
	assert.Contains(t, string(raw), "[api]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://hub.example.com", reloaded.GetString("api.base_url"))
	assert.Equal(t, 4, reloaded.GetInt("fetch.max_retries"))
	assert.Equal(t, 1.5, reloaded.GetFloat("fetch.rate_per_second"))
	assert.Equal(t, 30, reloaded.GetInt("viewer.search_limit"))
	assert.Equal(t, []string{"api.base_url", "fetch.max_retries", "fetch.rate_per_second", "viewer.search_limit"}, reloaded.Keys())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[github]
token = "ghp_test"

[cache]
enabled = false
ttl_hours = 6

[viewer]
search_limit = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", store.GetString("github.token"))
	assert.False(t, store.GetBool("cache.enabled"))
	_, ok := store.Get("cache.enabled")
	assert.True(t, ok)
	assert.Equal(t, 6, store.GetInt("cache.ttl_hours"))
}

func TestNestMap(t *testing.T) {
	got := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"x.y.z": "deep",
		"x.w":   true,
	})

	assert.Equal(t, 1, got["a"])
	assert.Equal(t, 2, got["a.b"])
	x, ok := got["x"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, x["w"])
	y, ok := x["y"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "deep", y["z"])

	assert.Equal(t, map[string]any{"a": 1, "a.b": 2, "x.y.z": "deep", "x.w": true}, flattenMap(got, ""))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

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
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "viewer.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_ = store.Keys()
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
