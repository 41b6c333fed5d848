package content

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxFiles is the number of mappings a FileCache keeps.
const DefaultMaxFiles = 1024

// FileCacheConfig controls FileCache limits.
type FileCacheConfig struct {
	// MaxFiles caps the number of cached mappings (0 = DefaultMaxFiles).
	// The least recently used mapping is dropped to make room.
	MaxFiles int
	Logger   *slog.Logger
}

// FileCacheStats reports cache activity.
type FileCacheStats struct {
	FilesCached  int   `json:"files_cached"`
	CacheHits    int64 `json:"hits"`
	CacheMisses  int64 `json:"misses"`
	Evictions    int64 `json:"evictions"`
	MmapFailures int64 `json:"mmap_failures"`
	BytesMapped  int64 `json:"bytes_mapped"`
}

// MappedFile is a read-only view of a file's bytes. Every view returned by
// Get must be released. The mapping is unmapped once the cache has dropped
// it and the last holder has released it.
type MappedFile struct {
	Path string
	Data []byte

	mm     mmap.MMap
	refs   atomic.Int32
	logger *slog.Logger
}

// Release gives back a view obtained from Get. Data must not be used
// afterwards.
func (mf *MappedFile) Release() {
	if mf.refs.Add(-1) != 0 || mf.mm == nil {
		return
	}
	if err := mf.mm.Unmap(); err != nil {
		mf.logger.Warn("failed to unmap file", "path", mf.Path, "error", err)
	}
}

// FileCache memory-maps content files so repeated scans (watch mode, MCP
// usage reports) read template bytes without copying. Files that cannot be
// mapped fall back to os.ReadFile. The descriptor is closed as soon as the
// file is mapped. Safe for concurrent use.
type FileCache struct {
	logger *slog.Logger

	mu    sync.Mutex
	files *lru.Cache[string, *MappedFile]
	stats FileCacheStats
}

// NewFileCache creates an empty cache.
func NewFileCache(config FileCacheConfig) *FileCache {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := config.MaxFiles
	if size <= 0 {
		size = DefaultMaxFiles
	}
	fc := &FileCache{logger: logger}
	files, err := lru.NewWithEvict[string, *MappedFile](size, fc.dropped)
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	fc.files = files
	return fc
}

// dropped releases the cache's own reference. It runs inside lru calls,
// which are only made with mu held.
func (fc *FileCache) dropped(_ string, mf *MappedFile) {
	fc.stats.BytesMapped -= int64(len(mf.Data))
	mf.Release()
}

// Get returns a view of path, mapping it on first access. The caller must
// Release it.
func (fc *FileCache) Get(path string) (*MappedFile, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.files.Get(path); ok {
		fc.stats.CacheHits++
		mf.refs.Add(1)
		return mf, nil
	}
	fc.stats.CacheMisses++

	mf, err := fc.load(path)
	if err != nil {
		return nil, err
	}
	// One reference for the cache, one for the caller.
	mf.refs.Store(2)
	fc.stats.BytesMapped += int64(len(mf.Data))
	if fc.files.Add(path, mf) {
		fc.stats.Evictions++
	}
	return mf, nil
}

// load must be called with mu held.
func (fc *FileCache) load(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if info.Size() == 0 {
		return &MappedFile{Path: path, logger: fc.logger}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		fc.stats.MmapFailures++
		fc.logger.Warn("mmap failed, using fallback", "file", path, "error", err)
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %q: %w", path, readErr)
		}
		return &MappedFile{Path: path, Data: data, logger: fc.logger}, nil
	}
	return &MappedFile{Path: path, Data: mm, mm: mm, logger: fc.logger}, nil
}

// Invalidate drops path so the next Get re-reads it. Views already handed
// out stay valid until released.
func (fc *FileCache) Invalidate(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.files.Remove(path)
}

// Stats returns a snapshot of cache metrics.
func (fc *FileCache) Stats() FileCacheStats {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	s := fc.stats
	s.FilesCached = fc.files.Len()
	return s
}

// Close drops every mapping. Views still held are unmapped on release.
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.files.Purge()
	return nil
}
