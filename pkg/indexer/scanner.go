package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/jsdeps/pkg/interrogate"
	"github.com/gnana997/jsdeps/pkg/parser"
	"github.com/gnana997/jsdeps/pkg/util"
)

// WorkspaceScanner walks a directory tree, extracts module imports from
// every matching source file in parallel, and feeds the results into a
// DependencyIndex.
type WorkspaceScanner struct {
	interrogator *interrogate.Interrogator
	index        *DependencyIndex
	files        util.FileCache
	logger       *slog.Logger
}

// NewWorkspaceScanner creates a scanner. The file cache is optional; a
// nil cache makes workers read straight from disk.
func NewWorkspaceScanner(in *interrogate.Interrogator, index *DependencyIndex, files util.FileCache, logger *slog.Logger) *WorkspaceScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceScanner{
		interrogator: in,
		index:        index,
		files:        files,
		logger:       logger,
	}
}

// Scan discovers files under rootDir and indexes their imports.
func (ws *WorkspaceScanner) Scan(rootDir string, opts ScanOptions, progress ProgressCallback) (*ScanStats, error) {
	totalStart := time.Now()
	stats := &ScanStats{StartTime: totalStart}

	discoveryStart := time.Now()
	files, err := DiscoverFiles(rootDir, opts)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	ws.logger.Info("discovery complete", "files", len(files), "ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(totalStart).Milliseconds()
		return stats, nil
	}

	indexingStart := time.Now()
	ws.extractAll(files, opts.Workers, stats, progress)
	stats.IndexingTimeMs = time.Since(indexingStart).Milliseconds()

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(totalStart).Milliseconds()

	ws.logger.Info("scan complete",
		"indexed", stats.FilesIndexed,
		"failed", stats.FilesFailed,
		"modules", stats.ModulesExtracted,
		"ms", stats.TotalTimeMs)

	return stats, nil
}

// ScanFile extracts and indexes a single file outside a full scan.
func (ws *WorkspaceScanner) ScanFile(filePath string) (*FileImports, error) {
	pool := NewWorkerPool(1, ws.interrogator, ws.files, ws.logger)
	pool.Start()
	defer pool.Stop()

	if err := pool.Submit(FileJob{FilePath: filePath}); err != nil {
		return nil, err
	}
	pool.FinishSubmitting()

	select {
	case res := <-pool.Results():
		ws.index.Add(res.Imports)
		return res.Imports, nil
	case ferr := <-pool.Errors():
		return nil, ferr.Err
	}
}

// extractAll fans files out to a worker pool. The collector goroutine
// starts before submission so bounded channels never deadlock.
func (ws *WorkspaceScanner) extractAll(files []string, workers int, stats *ScanStats, progress ProgressCallback) {
	pool := NewWorkerPool(workers, ws.interrogator, ws.files, ws.logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()

	var collectWg sync.WaitGroup
	var statsMu sync.Mutex
	done := 0
	total := len(files)

	collectWg.Add(2)
	go func() {
		defer collectWg.Done()
		for res := range pool.Results() {
			ws.index.Add(res.Imports)

			statsMu.Lock()
			stats.FilesIndexed++
			stats.ModulesExtracted += len(res.Imports.Modules)
			done++
			n := done
			statsMu.Unlock()

			if progress != nil {
				progress(n, total, res.Imports.FilePath)
			}
		}
	}()
	go func() {
		defer collectWg.Done()
		for ferr := range pool.Errors() {
			ws.logger.Warn("extraction failed", "file", ferr.FilePath, "error", ferr.Err)

			statsMu.Lock()
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, ferr)
			done++
			statsMu.Unlock()
		}
	}()

	for i, f := range files {
		if err := pool.Submit(FileJob{FilePath: f, JobID: i}); err != nil {
			ws.logger.Warn("submit failed", "file", f, "error", err)
		}
	}
	pool.FinishSubmitting()
	pool.Stop()
	collectWg.Wait()
}

// DiscoverFiles walks rootDir applying include/exclude globs. Returns a
// sorted slice of absolute file paths for deterministic output.
func DiscoverFiles(rootDir string, opts ScanOptions) ([]string, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range opts.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		// Check exclusions (directories and files).
		for _, pattern := range opts.Exclude {
			matched, _ := doublestar.PathMatch(pattern, relPath)
			if matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if parser.DetectLanguage(path) == parser.LanguageUnknown {
			return nil
		}

		if len(opts.Include) > 0 {
			matched := false
			for _, pattern := range opts.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
