// FileCache provides read access to source files through memory-mapped
// regions, so repeated extraction passes (watch mode, MCP queries) do not
// re-read whole files. Only accessed pages are paged into RAM; when mmap
// fails the cache falls back to os.ReadFile transparently.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache caches file contents via mmap. Safe for concurrent use:
// lookups take a read lock, loads and Close take the write lock.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// ReadFile returns the full contents of a file through the cache.
	// The returned slice aliases the mapping and must not be retained
	// past Close.
	ReadFile(filePath string) ([]byte, error)

	// Size returns the number of currently cached files.
	Size() int

	// Stats returns cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases descriptors. Must be called
	// before shutdown.
	Close() error
}

// FileCacheConfig bounds cache growth.
type FileCacheConfig struct {
	// MaxFiles caps the number of cached files; 0 means unlimited.
	MaxFiles int

	// MaxMemoryMB caps total mapped virtual memory in MB; 0 means
	// unlimited. This is address space, not resident RAM.
	MaxMemoryMB int

	// Logger for warnings; nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig covers medium workspaces comfortably.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:    10000,
		MaxMemoryMB: 2048,
	}
}

// MappedFile is one cached file.
type MappedFile struct {
	Path     string
	Data     mmap.MMap // nil for empty files
	File     *os.File  // nil for fallback entries
	Size     int64
	MappedAt time.Time
}

// FileCacheStats tracks cache behavior.
type FileCacheStats struct {
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	TotalMappedMB float64
}

// NewFileCache creates a FileCache. A nil config uses the defaults.
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &fileCache{
		config:   config,
		logger:   config.Logger,
		cache:    make(map[string]*MappedFile),
		fallback: make(map[string][]byte),
	}
}

type fileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu       sync.RWMutex
	cache    map[string]*MappedFile
	fallback map[string][]byte

	statsMu sync.Mutex
	stats   FileCacheStats
}

func (fc *fileCache) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	if mf, ok := fc.cache[filePath]; ok {
		fc.mu.RUnlock()
		fc.recordHit()
		return mf, nil
	}
	if data, ok := fc.fallback[filePath]; ok {
		fc.mu.RUnlock()
		fc.recordHit()
		return wrapFallback(filePath, data), nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if mf, ok := fc.cache[filePath]; ok {
		fc.recordHit()
		return mf, nil
	}
	if data, ok := fc.fallback[filePath]; ok {
		fc.recordHit()
		return wrapFallback(filePath, data), nil
	}

	fc.recordMiss()
	if err := fc.checkLimits(filePath); err != nil {
		return nil, err
	}

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}
	if mf.File != nil || mf.Size == 0 {
		fc.cache[filePath] = mf
	}
	return mf, nil
}

func (fc *fileCache) ReadFile(filePath string) ([]byte, error) {
	mf, err := fc.Get(filePath)
	if err != nil {
		return nil, err
	}
	return []byte(mf.Data), nil
}

// checkLimits verifies adding filePath would stay within the configured
// bounds. Caller holds the write lock.
func (fc *fileCache) checkLimits(filePath string) error {
	if fc.config.MaxFiles > 0 {
		current := len(fc.cache) + len(fc.fallback)
		if current >= fc.config.MaxFiles {
			return fmt.Errorf("file cache limit reached: %d files (limit %d)",
				current, fc.config.MaxFiles)
		}
	}
	if fc.config.MaxMemoryMB > 0 {
		stat, err := os.Stat(filePath)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", filePath, err)
		}
		afterMB := fc.mappedMBLocked() + float64(stat.Size())/(1024*1024)
		if afterMB >= float64(fc.config.MaxMemoryMB) {
			return fmt.Errorf("file cache memory limit reached: %.2f MB (limit %d MB)",
				afterMB, fc.config.MaxMemoryMB)
		}
	}
	return nil
}

// load opens and maps a file, falling back to os.ReadFile when mmap
// fails. Caller holds the write lock.
func (fc *fileCache) load(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", filePath, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", filePath, err)
	}

	// Zero bytes cannot be mapped.
	if stat.Size() == 0 {
		return &MappedFile{Path: filePath, File: file, MappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback",
			"file", filePath, "size", stat.Size(), "error", err)
		raw, readErr := os.ReadFile(filePath)
		file.Close()
		if readErr != nil {
			return nil, fmt.Errorf("mmap and fallback both failed for %q: %v; %w",
				filePath, err, readErr)
		}
		fc.fallback[filePath] = raw
		fc.recordMmapFailure()
		return wrapFallback(filePath, raw), nil
	}

	return &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     stat.Size(),
		MappedAt: time.Now(),
	}, nil
}

func wrapFallback(filePath string, data []byte) *MappedFile {
	return &MappedFile{
		Path:     filePath,
		Data:     mmap.MMap(data),
		Size:     int64(len(data)),
		MappedAt: time.Now(),
	}
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.cache) + len(fc.fallback)
}

func (fc *fileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.cache) + len(fc.fallback)
	mappedMB := fc.mappedMBLocked()
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mappedMB
	return stats
}

// mappedMBLocked sums mapped bytes. Caller holds at least the read lock.
func (fc *fileCache) mappedMBLocked() float64 {
	total := int64(0)
	for _, mf := range fc.cache {
		total += mf.Size
	}
	for _, data := range fc.fallback {
		total += int64(len(data))
	}
	return float64(total) / (1024 * 1024)
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.cache {
		if mf.Data != nil {
			if err := mf.Data.Unmap(); err != nil {
				fc.logger.Warn("failed to unmap file", "path", path, "error", err)
				errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
			}
		}
		if mf.File != nil {
			if err := mf.File.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", path, err))
			}
		}
	}
	fc.cache = make(map[string]*MappedFile)
	fc.fallback = make(map[string][]byte)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (fc *fileCache) recordHit() {
	fc.statsMu.Lock()
	fc.stats.CacheHits++
	fc.statsMu.Unlock()
}

func (fc *fileCache) recordMiss() {
	fc.statsMu.Lock()
	fc.stats.CacheMisses++
	fc.statsMu.Unlock()
}

func (fc *fileCache) recordMmapFailure() {
	fc.statsMu.Lock()
	fc.stats.MmapFailures++
	fc.statsMu.Unlock()
}
