package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(Config{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/files",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStorage_SaveAndGet(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	err := store.Save(ctx, "profile/avatar.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	reader, err := store.Get(ctx, "profile/avatar.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStorage_SaveOverwrites(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "profile/a.png", strings.NewReader("first"), "image/png"))
	require.NoError(t, store.Save(ctx, "profile/a.png", strings.NewReader("second"), "image/png"))

	reader, err := store.Get(ctx, "profile/a.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_SaveLeavesNoTempFiles(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "profile/a.png", strings.NewReader("x"), "image/png"))

	entries, err := os.ReadDir(filepath.Join(base, "profile"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}

func TestLocalStorage_Exists(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "profile/missing.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "profile/present.png", strings.NewReader("x"), "image/png"))

	ok, err = store.Exists(ctx, "profile/present.png")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "profile/doomed.png", strings.NewReader("x"), "image/png"))

	require.NoError(t, store.Delete(ctx, "profile/doomed.png"))
	// Deleting again must not fail.
	require.NoError(t, store.Delete(ctx, "profile/doomed.png"))

	ok, err := store.Exists(ctx, "profile/doomed.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_GetURL(t *testing.T) {
	store := newTestLocalStorage(t)

	url, err := store.GetURL(context.Background(), "profile/thumb/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/profile/thumb/a.png", url)
}

func TestLocalStorage_GetSize(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "profile/sized.png", strings.NewReader("12345"), "image/png"))

	size, err := store.GetSize(ctx, "profile/sized.png")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}

func TestSafeFilename(t *testing.T) {
	cases := map[string]string{
		"avatar.png":            "avatar.png",
		"../../etc/passwd":      "passwd",
		"/absolute/path/a.jpg":  "a.jpg",
		"  spaced.png  ":        "spaced.png",
		"":                      "file",
		"nested/dir/photo.jpeg": "photo.jpeg",
	}

	for input, want := range cases {
		assert.Equal(t, want, SafeFilename(input), "input %q", input)
	}
}
