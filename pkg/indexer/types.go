package indexer

import "time"

// FileImports is the unit of indexing: every module name one source file
// imports, in document order, duplicates preserved.
type FileImports struct {
	// FilePath is the absolute path to the file.
	FilePath string

	// Modules are the extracted module names.
	Modules []string

	// ContentHash is the SHA-256 of the file content at extraction
	// time, used for change detection.
	ContentHash string

	// Timestamp is when the file was indexed (Unix milliseconds).
	Timestamp int64
}

// ScanOptions configures workspace scanning.
type ScanOptions struct {
	// Include are doublestar patterns a file must match; empty means
	// all supported files.
	Include []string

	// Exclude are doublestar patterns that skip files or whole
	// directories.
	Exclude []string

	// Workers overrides the worker count; 0 uses the CPU-derived
	// default.
	Workers int
}

// DefaultScanOptions covers JavaScript and TypeScript sources while
// skipping the usual dependency and build directories.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.js", "**/*.jsx", "**/*.mjs", "**/*.cjs",
			"**/*.ts", "**/*.tsx",
		},
		Exclude: []string{
			"**/node_modules/**", "**/.git/**",
			"**/dist/**", "**/build/**", "**/coverage/**",
		},
	}
}

// FileError records a file that failed to scan.
type FileError struct {
	FilePath string
	Err      error
}

// ScanStats summarizes one workspace scan.
type ScanStats struct {
	FilesDiscovered  int
	FilesIndexed     int
	FilesFailed      int
	ModulesExtracted int
	WorkerCount      int

	StartTime       time.Time
	EndTime         time.Time
	DiscoveryTimeMs int64
	IndexingTimeMs  int64
	TotalTimeMs     int64

	Errors []FileError
}

// ProgressCallback reports per-file scan progress.
type ProgressCallback func(done, total int, filePath string)

// WatchOptions configures the file watcher.
type WatchOptions struct {
	// DebounceMs groups rapid successive events per file; 0 uses the
	// 200ms default.
	DebounceMs int

	// Ignore are directory names the watcher never descends into.
	Ignore []string
}

// DefaultWatchOptions returns the standard ignore set and debounce.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		Ignore:     []string{"node_modules", ".git", "dist", "build", "coverage"},
	}
}
