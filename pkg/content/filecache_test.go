package content

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/cafetheme/pkg/util"
)

func newTestCache(maxFiles int) *FileCache {
	return NewFileCache(FileCacheConfig{MaxFiles: maxFiles, Logger: util.NopLogger()})
}

func TestFileCache_GetCachesAndCounts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p class="text-cafe-brown">`), 0644))

	fc := newTestCache(0)
	defer fc.Close()

	mf, err := fc.Get(path)
	require.NoError(t, err)
	assert.Equal(t, `<p class="text-cafe-brown">`, string(mf.Data))
	mf.Release()

	again, err := fc.Get(path)
	require.NoError(t, err)
	defer again.Release()
	assert.Same(t, mf, again)

	stats := fc.Stats()
	assert.Equal(t, 1, stats.FilesCached)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(len(again.Data)), stats.BytesMapped)
}

func TestFileCache_EmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.py")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	fc := newTestCache(0)
	defer fc.Close()

	mf, err := fc.Get(empty)
	require.NoError(t, err)
	assert.Empty(t, mf.Data)
	mf.Release()

	_, err = fc.Get(filepath.Join(dir, "missing.py"))
	assert.Error(t, err)
}

func TestFileCache_InvalidateRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.html")
	require.NoError(t, os.WriteFile(path, []byte("old-class"), 0644))

	fc := newTestCache(0)
	defer fc.Close()

	mf, err := fc.Get(path)
	require.NoError(t, err)
	mf.Release()

	fc.Invalidate(path)
	require.NoError(t, os.WriteFile(path, []byte("new-class-name"), 0644))

	mf, err = fc.Get(path)
	require.NoError(t, err)
	defer mf.Release()
	assert.Equal(t, "new-class-name", string(mf.Data))
	assert.Equal(t, int64(len(mf.Data)), fc.Stats().BytesMapped)
}

func TestFileCache_ViewOutlivesInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.html")
	require.NoError(t, os.WriteFile(path, []byte(bigTemplate("max-w-container")), 0644))

	fc := newTestCache(0)
	defer fc.Close()

	mf, err := fc.Get(path)
	require.NoError(t, err)
	require.Zero(t, fc.Stats().MmapFailures)

	fc.Invalidate(path)
	assert.Zero(t, fc.Stats().FilesCached)

	// The held view is still mapped.
	assert.Contains(t, ExtractCandidates(mf.Data), "max-w-container")
	mf.Release()
}

func TestFileCache_ViewOutlivesClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.html")
	require.NoError(t, os.WriteFile(path, []byte(bigTemplate("font-yumincho")), 0644))

	fc := newTestCache(0)
	mf, err := fc.Get(path)
	require.NoError(t, err)

	require.NoError(t, fc.Close())
	assert.Contains(t, ExtractCandidates(mf.Data), "font-yumincho")
	mf.Release()
}

func TestFileCache_EvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.html": "a-a", "b.html": "b-b"})
	a, b := filepath.Join(dir, "a.html"), filepath.Join(dir, "b.html")

	fc := newTestCache(1)
	defer fc.Close()

	for _, p := range []string{a, b, a} {
		mf, err := fc.Get(p)
		require.NoError(t, err)
		mf.Release()
	}

	stats := fc.Stats()
	assert.Equal(t, 1, stats.FilesCached)
	assert.Equal(t, int64(2), stats.Evictions)
	assert.Equal(t, int64(3), stats.CacheMisses)
	assert.Equal(t, int64(len("a-a")), stats.BytesMapped)
}

func TestFileCache_ClosesDescriptorsAfterMapping(t *testing.T) {
	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 50 {
		files[fmt.Sprintf("page%02d.html", i)] = bigTemplate("bg-cafe-cyan")
	}
	writeTree(t, dir, files)

	fc := newTestCache(0)
	defer fc.Close()

	before := openFDs(t)
	for name := range files {
		mf, err := fc.Get(filepath.Join(dir, name))
		require.NoError(t, err)
		mf.Release()
	}
	assert.Equal(t, 50, fc.Stats().FilesCached)
	assert.LessOrEqual(t, openFDs(t), before+2)
}
