package content

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scanner discovers content files and indexes their class candidates. Scan
// and Rescan are serialized so a single-file update never interleaves with
// a full scan.
type Scanner struct {
	mu     sync.Mutex
	cache  *FileCache
	index  *Index
	logger *slog.Logger
}

// CacheStats describes the scanner's file cache and index.
type CacheStats struct {
	Files          FileCacheStats `json:"file_cache"`
	IndexedFiles   int            `json:"indexed_files"`
	IndexEvictions int64          `json:"index_evictions"`
}

// NewScanner creates a Scanner filling index. A nil cache gets a private
// one holding DefaultMaxFiles mappings.
func NewScanner(index *Index, cache *FileCache, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewFileCache(FileCacheConfig{MaxFiles: DefaultMaxFiles, Logger: logger})
	}
	return &Scanner{cache: cache, index: index, logger: logger}
}

// Index returns the index the scanner fills.
func (s *Scanner) Index() *Index { return s.index }

// Stats reports cache and index counters.
func (s *Scanner) Stats() CacheStats {
	return CacheStats{
		Files:          s.cache.Stats(),
		IndexedFiles:   s.index.Len(),
		IndexEvictions: s.index.Evictions(),
	}
}

// Close releases cached file mappings.
func (s *Scanner) Close() error { return s.cache.Close() }

// Scan resolves cfg against baseDir and indexes every matching file. Files
// that fail to read are counted, logged and skipped.
func (s *Scanner) Scan(ctx context.Context, baseDir string, cfg ScanConfig) (ScanStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats ScanStats
	start := time.Now()

	files, err := Discover(baseDir, cfg)
	if err != nil {
		return stats, err
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(start).Milliseconds()

	extractStart := time.Now()
	pool := NewWorkerPool(cfg.Workers, s.cache, s.logger)
	pool.Start(ctx)
	defer pool.Stop()
	go func() {
		defer pool.Close()
		for i, f := range files {
			if !pool.Submit(FileJob{Path: f, JobID: i}) {
				return
			}
		}
	}()

	results, errs := pool.Results(), pool.Errors()
	for results != nil || errs != nil {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			s.index.Put(r.Path, r.Candidates)
			stats.FilesExtracted++
			stats.Candidates += len(r.Candidates)
		case fe, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			stats.FilesFailed++
			s.logger.Warn("failed to read content file", "file", fe.Path, "error", fe.Err)
		}
	}
	pool.Wait()
	stats.ExtractTimeMs = time.Since(extractStart).Milliseconds()
	stats.TotalTimeMs = time.Since(start).Milliseconds()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	s.logger.Info("content scan complete",
		"files", stats.FilesExtracted,
		"failed", stats.FilesFailed,
		"candidates", stats.Candidates,
		"ms", stats.TotalTimeMs)
	return stats, nil
}

// Rescan re-reads a single file into the index.
func (s *Scanner) Rescan(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Invalidate(path)
	mf, err := s.cache.Get(path)
	if err != nil {
		s.index.Remove(path)
		return err
	}
	defer mf.Release()

	candidates, err := extractMapped(mf)
	if err != nil {
		s.index.Remove(path)
		return err
	}
	s.index.Put(path, candidates)
	return nil
}

// Forget drops a file from the index and the cache. It does not wait for
// a running Scan; views that scan holds stay valid until released.
func (s *Scanner) Forget(path string) {
	s.cache.Invalidate(path)
	s.index.Remove(path)
}
