package content

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Index keeps the class-name candidates of every scanned file. Entries live
// in an LRU so long watch sessions over large template trees stay bounded;
// an evicted file simply drops out of usage results until it is re-scanned.
type Index struct {
	mu    sync.RWMutex
	files *lru.Cache[string, []string]

	evictions atomic.Int64
	logger    *slog.Logger
}

// DefaultIndexSize is the number of files an Index keeps.
const DefaultIndexSize = 20000

// NewIndex creates an Index holding up to size files (0 = DefaultIndexSize).
func NewIndex(size int, logger *slog.Logger) *Index {
	if size <= 0 {
		size = DefaultIndexSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	idx := &Index{files: cache, logger: logger}
	return idx
}

// Put records the candidates of path, replacing earlier ones.
func (idx *Index) Put(path string, candidates []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.files.Add(path, candidates) {
		idx.evictions.Add(1)
		idx.logger.Debug("index full, evicted least recently scanned file")
	}
}

// Remove drops path.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.files.Remove(path)
}

// Get returns the candidates of path.
func (idx *Index) Get(path string) ([]string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.files.Peek(path)
}

// Files returns the indexed paths in sorted order.
func (idx *Index) Files() []string {
	idx.mu.RLock()
	keys := idx.files.Keys()
	idx.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.files.Len()
}

// Evictions returns how many files were dropped to make room.
func (idx *Index) Evictions() int64 {
	return idx.evictions.Load()
}

// Classes returns every candidate with the sorted files that contain it.
func (idx *Index) Classes() map[string][]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string][]string)
	for _, path := range idx.files.Keys() {
		cands, ok := idx.files.Peek(path)
		if !ok {
			continue
		}
		for _, c := range cands {
			out[c] = append(out[c], path)
		}
	}
	for _, files := range out {
		sort.Strings(files)
	}
	return out
}

// FilesUsing returns the sorted files containing class.
func (idx *Index) FilesUsing(class string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var files []string
	for _, path := range idx.files.Keys() {
		cands, _ := idx.files.Peek(path)
		if i := sort.SearchStrings(cands, class); i < len(cands) && cands[i] == class {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.files.Purge()
}
