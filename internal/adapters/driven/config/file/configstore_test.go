package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, FileName), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_WeightsWrittenAsTable(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("weights.HD", 0.75))
	require.NoError(t, store.Set("weights.GK", 0.25))

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[weights]")
	assert.Contains(t, string(content), "HD = 0.75")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, reloaded.GetFloat("weights.HD"), 1e-9)
	assert.InDelta(t, 0.25, reloaded.GetFloat("weights.GK"), 1e-9)
}

func TestConfigStore_HandEditedFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[weights]\nHD = 1\nWA = 1.5\nGK = \"0.4\"\n\n[display]\ncolour = true\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, store.GetFloat("weights.HD"), 1e-9, "integers widen")
	assert.InDelta(t, 1.5, store.GetFloat("weights.WA"), 1e-9)
	assert.InDelta(t, 0.4, store.GetFloat("weights.GK"), 1e-9, "numeric strings parse")
	colour, ok := store.Get("display.colour")
	assert.True(t, ok)
	assert.Equal(t, true, colour)
	assert.Zero(t, store.GetFloat("display.colour"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("weights.HD", 0.75))
	require.NoError(t, store.Set("weights.WA", 2))
	require.NoError(t, store.Set("weights.GK", "light"))

	assert.InDelta(t, 0.75, store.GetFloat("weights.HD"), 1e-9)
	assert.InDelta(t, 2.0, store.GetFloat("weights.WA"), 1e-9)
	assert.Zero(t, store.GetFloat("weights.GK"))
	assert.Zero(t, store.GetFloat("weights.FS"))
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("weights.HD", 0.9))

	require.NoError(t, store.Delete("weights.HD"))
	require.NoError(t, store.Delete("weights.HD"), "deleting a missing key")

	_, ok := store.Get("weights.HD")
	assert.False(t, ok)

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok = reloaded.Get("weights.HD")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("weights.FS", 2))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
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

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("valid", "data"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "weights.k" + string(rune('0'+id))
			_ = store.Set(key, float64(id))
			_ = store.GetFloat(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	reloaded, err := NewConfigStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.InDelta(t, 7.0, reloaded.GetFloat("weights.k7"), 1e-9)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"weights.HD": 0.6,
		"weights.GK": 0.5,
		"top":        "x",
	})

	assert.Equal(t, map[string]any{
		"weights": map[string]any{"HD": 0.6, "GK": 0.5},
		"top":     "x",
	}, nested)
	assert.Equal(t, map[string]any{"weights.HD": 0.6, "weights.GK": 0.5, "top": "x"}, flattenMap(nested, ""))
}

func TestNestMap_ScalarParentStaysFlat(t *testing.T) {
	flat := map[string]any{"a": 1, "a.b": 2}

	nested := nestMap(flat)

	assert.Equal(t, 1, nested["a"])
	assert.Equal(t, 2, nested["a.b"])
}

func TestConfigStore_WatchReloads(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("weights.HD", 0.6))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { changed <- struct{}{} })
	}()

	edited := []byte("[weights]\nHD = 0.75\n")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(store.Path(), edited, 0600)
		return store.GetFloat("weights.HD") == 0.75
	}, 5*time.Second, 150*time.Millisecond)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
