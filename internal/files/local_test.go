package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCapability(t *testing.T) {
	t.Run("readable directory grants scanning", func(t *testing.T) {
		adapter := NewLocalAdapter(t.TempDir())
		assert.Equal(t, CapabilityDirectoryScan, adapter.Capability())
	})

	t.Run("empty root is path-only", func(t *testing.T) {
		adapter := NewLocalAdapter("")
		assert.Equal(t, CapabilityPathOnly, adapter.Capability())
	})

	t.Run("missing directory is path-only", func(t *testing.T) {
		adapter := NewLocalAdapter("/does/not/exist")
		assert.Equal(t, CapabilityPathOnly, adapter.Capability())
	})
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "book.epub", "contents")
	write(t, dir, "notes.txt", "text")

	adapter := NewLocalAdapter(dir)
	ctx := context.Background()

	t.Run("reads an accepted file", func(t *testing.T) {
		file, err := adapter.OpenFile(ctx, "book.epub", OpenOptions{Accept: []string{".epub"}})
		require.NoError(t, err)
		assert.Equal(t, "book.epub", file.Name)
		assert.Equal(t, []byte("contents"), file.Data)
		assert.Equal(t, int64(8), file.Size)
		assert.Equal(t, "application/epub+zip", file.Type)
	})

	t.Run("rejects filtered extensions", func(t *testing.T) {
		_, err := adapter.OpenFile(ctx, "notes.txt", OpenOptions{Accept: []string{".epub"}})
		assert.ErrorIs(t, err, ErrRejectedExtension)
	})

	t.Run("empty filter accepts everything", func(t *testing.T) {
		file, err := adapter.OpenFile(ctx, "notes.txt", OpenOptions{})
		require.NoError(t, err)
		assert.Equal(t, "text/plain", file.Type)
	})
}

func TestOpenMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "beta.epub", "b")
	write(t, dir, "alpha.epub", "a")
	write(t, dir, "skip.pdf", "p")

	ctx := context.Background()

	t.Run("reads accepted files in name order", func(t *testing.T) {
		adapter := NewLocalAdapter(dir)
		opened, err := adapter.OpenMultipleFiles(ctx, OpenOptions{Accept: []string{".epub"}})
		require.NoError(t, err)
		require.Len(t, opened, 2)
		assert.Equal(t, "alpha.epub", opened[0].Name)
		assert.Equal(t, "beta.epub", opened[1].Name)
	})

	t.Run("path-only adapters refuse to scan", func(t *testing.T) {
		adapter := NewLocalAdapter("")
		_, err := adapter.OpenMultipleFiles(ctx, OpenOptions{})
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestListCandidates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "one.epub", "1")
	write(t, dir, "two.epub", "2")
	write(t, dir, "readme.md", "m")

	adapter := NewLocalAdapter(dir)
	names, err := adapter.ListCandidates(OpenOptions{Accept: []string{".epub"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"one.epub", "two.epub"}, names)
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	adapter := NewLocalAdapter(dir)

	err := adapter.SaveFile(context.Background(), []byte("export"), "out.epub", SaveOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.epub"))
	require.NoError(t, err)
	assert.Equal(t, []byte("export"), data)
}
