// Package indexer scans workspaces for JavaScript/TypeScript sources,
// extracts their module imports in parallel, and maintains an LRU-backed
// per-file dependency index with aggregate module usage counts.
package indexer

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// IndexConfig configures the dependency index.
type IndexConfig struct {
	// MaxCachedFiles bounds the LRU cache; least recently used files
	// are evicted. Default: 1000.
	MaxCachedFiles int
}

// DefaultIndexConfig returns the default cache bound.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{MaxCachedFiles: 1000}
}

// ModuleUsage is one module name with the number of imports across the
// currently indexed files.
type ModuleUsage struct {
	Name  string
	Count int
}

// IndexStats describes the index state.
type IndexStats struct {
	CachedFiles   int
	UniqueModules int
	CacheHits     int64
	CacheMisses   int64
	Evictions     int64
}

// DependencyIndex stores per-file import lists behind an LRU cache and
// keeps module usage counts in sync with evictions. Counts therefore
// reflect the files currently held, not every file ever scanned.
// Safe for concurrent use.
type DependencyIndex struct {
	mu           sync.RWMutex
	cache        *lru.Cache[string, *FileImports]
	moduleCounts map[string]int

	hits      int64
	misses    int64
	evictions int64

	logger *slog.Logger
}

// NewDependencyIndex creates an index. A nil logger falls back to
// slog.Default().
func NewDependencyIndex(config IndexConfig, logger *slog.Logger) (*DependencyIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedFiles <= 0 {
		config.MaxCachedFiles = DefaultIndexConfig().MaxCachedFiles
	}

	idx := &DependencyIndex{
		moduleCounts: make(map[string]int),
		logger:       logger,
	}

	// The evict callback runs under the cache's own lock inside Add,
	// which we only ever call while holding idx.mu, so count updates
	// here need no extra locking.
	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(key string, value *FileImports) {
		idx.evictions++
		idx.subtractCounts(value)
		idx.logger.Debug("evicted file from dependency index", "file", key)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	idx.cache = cache
	return idx, nil
}

// Add stores (or replaces) a file's import list.
func (idx *DependencyIndex) Add(fi *FileImports) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if prev, ok := idx.cache.Peek(fi.FilePath); ok {
		idx.subtractCounts(prev)
	}
	idx.cache.Add(fi.FilePath, fi)
	for _, name := range fi.Modules {
		idx.moduleCounts[name]++
	}
}

// Get returns a file's import list if it is still cached.
func (idx *DependencyIndex) Get(filePath string) (*FileImports, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	fi, ok := idx.cache.Get(filePath)
	if ok {
		idx.hits++
	} else {
		idx.misses++
	}
	return fi, ok
}

// Remove drops a file from the index, e.g. after deletion on disk.
func (idx *DependencyIndex) Remove(filePath string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if fi, ok := idx.cache.Peek(filePath); ok {
		idx.subtractCounts(fi)
		idx.cache.Remove(filePath)
	}
}

// Modules returns usage counts for every module imported by the
// currently indexed files, sorted by name.
func (idx *DependencyIndex) Modules() []ModuleUsage {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	usage := make([]ModuleUsage, 0, len(idx.moduleCounts))
	for name, count := range idx.moduleCounts {
		usage = append(usage, ModuleUsage{Name: name, Count: count})
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].Name < usage[j].Name })
	return usage
}

// Files returns the paths currently held by the index.
func (idx *DependencyIndex) Files() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := idx.cache.Keys()
	sort.Strings(keys)
	return keys
}

// Stats returns index metrics.
func (idx *DependencyIndex) Stats() IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return IndexStats{
		CachedFiles:   idx.cache.Len(),
		UniqueModules: len(idx.moduleCounts),
		CacheHits:     idx.hits,
		CacheMisses:   idx.misses,
		Evictions:     idx.evictions,
	}
}

// subtractCounts removes a file's contribution to the usage counts.
// Caller holds idx.mu.
func (idx *DependencyIndex) subtractCounts(fi *FileImports) {
	for _, name := range fi.Modules {
		if idx.moduleCounts[name] <= 1 {
			delete(idx.moduleCounts, name)
		} else {
			idx.moduleCounts[name]--
		}
	}
}
