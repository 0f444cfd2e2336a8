package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)
	return store
}

func TestNewImageStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "images")

	store, err := NewImageStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSave(t *testing.T) {
	store := newTestStore(t)

	filename, err := store.Save(context.Background(), "abc123", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "date_abc123_"), "filename = %q", filename)
	assert.True(t, strings.HasSuffix(filename, ".png"), "filename = %q", filename)

	data, err := os.ReadFile(filepath.Join(store.Dir(), filename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSave_UnknownMIMEFallsBackToJPEG(t *testing.T) {
	store := newTestStore(t)

	filename, err := store.Save(context.Background(), "abc123", "application/octet-stream", strings.NewReader("x"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, ".jpg"), "filename = %q", filename)
}

func TestSave_DistinctFilenames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, "abc123", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "abc123", "image/jpeg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	filename, err := store.Save(ctx, "abc123", "image/webp", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, filename))

	_, err = os.Stat(filepath.Join(store.Dir(), filename))
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-gone file is not an error.
	assert.NoError(t, store.Delete(ctx, filename))
}

func TestDelete_RejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	// A sibling file outside the image directory must stay untouched.
	outside := filepath.Join(filepath.Dir(store.Dir()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))

	err := store.Delete(context.Background(), "../secret.txt")
	assert.Error(t, err)

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}
