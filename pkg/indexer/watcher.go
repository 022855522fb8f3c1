package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/jsdeps/pkg/parser"
)

// FileWatcher keeps a DependencyIndex current as files change on disk.
// Rapid successive events on the same file are debounced so only the
// last one triggers re-extraction.
//
//	watcher, err := NewFileWatcher(scanner, index, DefaultWatchOptions(), logger)
//	if err != nil { ... }
//	if err := watcher.Start(root); err != nil { ... }
//	defer watcher.Stop()
type FileWatcher struct {
	watcher *fsnotify.Watcher
	scanner *WorkspaceScanner
	index   *DependencyIndex
	logger  *slog.Logger
	options WatchOptions

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a watcher over the given scanner and index.
func NewFileWatcher(scanner *WorkspaceScanner, index *DependencyIndex, options WatchOptions, logger *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.DebounceMs == 0 {
		options.DebounceMs = DefaultWatchOptions().DebounceMs
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileWatcher{
		watcher:        watcher,
		scanner:        scanner,
		index:          index,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and all non-ignored subdirectories, then runs
// the event loop in the background.
func (fw *FileWatcher) Start(rootPath string) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.mu.Unlock()

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on error.
		}
		if !d.IsDir() {
			return nil
		}
		if fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.logger.Info("file watcher started", "root", rootPath)

	go fw.eventLoop()
	return nil
}

// Stop shuts the watcher down. Safe to call multiple times.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}
	fw.stopped = true
	close(fw.stopChan)

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.logger.Info("file watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if fw.shouldIgnore(path) {
		return
	}

	// New directories need their own watch before events inside them
	// can be seen.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := fw.watcher.Add(path); err != nil {
				fw.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if parser.DetectLanguage(path) == parser.LanguageUnknown {
		return
	}

	fw.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
		fw.debounceReindex(path)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		fw.removeFile(path)
	}
}

// debounceReindex schedules re-extraction after the debounce delay,
// resetting the timer if another event for the same file arrives first.
func (fw *FileWatcher) debounceReindex(filePath string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[filePath]; exists {
		timer.Stop()
	}

	fw.debounceTimers[filePath] = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.reindexFile(filePath)

			fw.debounceMu.Lock()
			delete(fw.debounceTimers, filePath)
			fw.debounceMu.Unlock()
		},
	)
}

func (fw *FileWatcher) reindexFile(filePath string) {
	fi, err := fw.scanner.ScanFile(filePath)
	if err != nil {
		fw.logger.Warn("failed to reindex file", "file", filePath, "error", err)
		return
	}
	fw.logger.Debug("file reindexed", "file", filePath, "modules", len(fi.Modules))
}

func (fw *FileWatcher) removeFile(filePath string) {
	fw.logger.Debug("removing file from index", "file", filePath)
	fw.index.Remove(filePath)
}

func (fw *FileWatcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, name := range fw.options.Ignore {
		if base == name {
			return true
		}
	}
	return false
}

// PendingReindexes reports how many files are waiting out their
// debounce window.
func (fw *FileWatcher) PendingReindexes() int {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()
	return len(fw.debounceTimers)
}
