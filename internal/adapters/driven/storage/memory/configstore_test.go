package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"api.base_url":          "http://localhost",
		"fetch.rate_per_second": 2,
	})
	require.NotNil(t, store)

	assert.Equal(t, "http://localhost", store.GetString("api.base_url"))
	assert.Equal(t, 2.0, store.GetFloat("fetch.rate_per_second"))
	assert.Equal(t, []string{"api.base_url", "fetch.rate_per_second"}, store.Keys())
}

func TestConfigStore_Getters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "value"))
	require.NoError(t, store.Set("i", 7))
	require.NoError(t, store.Set("i64", int64(8)))
	require.NoError(t, store.Set("f", 0.5))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "value", store.GetString("s"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 8, store.GetInt("i64"))
	assert.Equal(t, 0.5, store.GetFloat("f"))
	assert.True(t, store.GetBool("b"))

	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_NoopPersistence(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
