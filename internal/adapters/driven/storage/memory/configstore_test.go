package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGetDelete(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())

	require.NoError(t, store.Set("weights.HD", 0.9))
	val, ok := store.Get("weights.HD")
	assert.True(t, ok)
	assert.Equal(t, 0.9, val)

	require.NoError(t, store.Delete("weights.HD"))
	_, ok = store.Get("weights.HD")
	assert.False(t, ok)
	assert.NoError(t, store.Delete("weights.HD"), "deleting a missing key is not an error")
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("int", 2)
	_ = store.Set("int64", int64(7))
	_ = store.Set("float32", float32(0.25))
	_ = store.Set("text", " 0.7 ")
	_ = store.Set("word", "heavy")
	_ = store.Set("bool", true)

	tests := []struct {
		key  string
		want float64
	}{
		{"int", 2},
		{"int64", 7},
		{"float32", 0.25},
		{"text", 0.7},
		{"word", 0},
		{"bool", 0},
		{"missing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.InDelta(t, tt.want, store.GetFloat(tt.key), 1e-9)
		})
	}
}

func TestConfigStore_LoadRollsBackUnsavedChanges(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("weights.WA", 1.2))
	require.NoError(t, store.Save())

	require.NoError(t, store.Set("weights.WA", 3.0))
	require.NoError(t, store.Set("weights.GK", 0.1))
	require.NoError(t, store.Load())

	assert.InDelta(t, 1.2, store.GetFloat("weights.WA"), 1e-9)
	_, ok := store.Get("weights.GK")
	assert.False(t, ok)
}

func TestConfigStore_SnapshotIsIndependent(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("weights.HD", 0.3))
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	require.NoError(t, store.Set("weights.HD", 0.8))
	require.NoError(t, store.Load())

	assert.InDelta(t, 0.3, store.GetFloat("weights.HD"), 1e-9)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("weights.S%d", id)
			_ = store.Set(key, float64(id))
			_ = store.GetFloat(key)
			if id%5 == 0 {
				_ = store.Delete(key)
			}
			_ = store.Save()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		_, ok := store.Get(fmt.Sprintf("weights.S%d", i))
		assert.Equal(t, i%5 != 0, ok, "key %d", i)
	}
}

func TestConfigStore_InstancesAreIsolated(t *testing.T) {
	a := NewConfigStore()
	b := NewConfigStore()

	_ = a.Set("weights.HD", 0.1)
	_, ok := b.Get("weights.HD")
	assert.False(t, ok)
}
