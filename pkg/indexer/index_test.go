package indexer

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newIndex(t *testing.T, maxFiles int) *DependencyIndex {
	t.Helper()
	idx, err := NewDependencyIndex(IndexConfig{MaxCachedFiles: maxFiles}, testLogger())
	require.NoError(t, err)
	return idx
}

func TestIndexAddAndGet(t *testing.T) {
	idx := newIndex(t, 10)

	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"react", "lodash"}})

	fi, ok := idx.Get("/a.js")
	require.True(t, ok)
	assert.Equal(t, []string{"react", "lodash"}, fi.Modules)

	_, ok = idx.Get("/missing.js")
	assert.False(t, ok)

	stats := idx.Stats()
	assert.Equal(t, 1, stats.CachedFiles)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
}

func TestIndexModuleCounts(t *testing.T) {
	idx := newIndex(t, 10)

	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"react", "lodash"}})
	idx.Add(&FileImports{FilePath: "/b.js", Modules: []string{"react"}})

	usage := idx.Modules()
	require.Len(t, usage, 2)
	assert.Equal(t, ModuleUsage{Name: "lodash", Count: 1}, usage[0])
	assert.Equal(t, ModuleUsage{Name: "react", Count: 2}, usage[1])
}

// Duplicate imports within one file each count once.
func TestIndexDuplicateImportsCounted(t *testing.T) {
	idx := newIndex(t, 10)

	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"jquery", "jquery"}})

	usage := idx.Modules()
	require.Len(t, usage, 1)
	assert.Equal(t, 2, usage[0].Count)
}

// Re-adding a file replaces its previous contribution instead of
// accumulating.
func TestIndexReplaceFile(t *testing.T) {
	idx := newIndex(t, 10)

	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"react", "lodash"}})
	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"react"}})

	usage := idx.Modules()
	require.Len(t, usage, 1)
	assert.Equal(t, ModuleUsage{Name: "react", Count: 1}, usage[0])

	stats := idx.Stats()
	assert.Equal(t, 1, stats.CachedFiles)
}

func TestIndexRemove(t *testing.T) {
	idx := newIndex(t, 10)

	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"react"}})
	idx.Add(&FileImports{FilePath: "/b.js", Modules: []string{"react", "vue"}})

	idx.Remove("/b.js")

	usage := idx.Modules()
	require.Len(t, usage, 1)
	assert.Equal(t, ModuleUsage{Name: "react", Count: 1}, usage[0])

	_, ok := idx.Get("/b.js")
	assert.False(t, ok)

	// Removing an unknown path is a no-op.
	idx.Remove("/missing.js")
	assert.Equal(t, 1, idx.Stats().CachedFiles)
}

// Evicted files stop contributing to module counts.
func TestIndexEvictionAdjustsCounts(t *testing.T) {
	idx := newIndex(t, 2)

	idx.Add(&FileImports{FilePath: "/a.js", Modules: []string{"a-only", "shared"}})
	idx.Add(&FileImports{FilePath: "/b.js", Modules: []string{"shared"}})
	idx.Add(&FileImports{FilePath: "/c.js", Modules: []string{"c-only"}})

	stats := idx.Stats()
	assert.Equal(t, 2, stats.CachedFiles)
	assert.Equal(t, int64(1), stats.Evictions)

	// /a.js was least recently used and is gone with its counts.
	_, ok := idx.Get("/a.js")
	assert.False(t, ok)

	usage := idx.Modules()
	names := make(map[string]int)
	for _, u := range usage {
		names[u.Name] = u.Count
	}
	assert.NotContains(t, names, "a-only")
	assert.Equal(t, 1, names["shared"])
	assert.Equal(t, 1, names["c-only"])
}

func TestIndexFiles(t *testing.T) {
	idx := newIndex(t, 10)

	idx.Add(&FileImports{FilePath: "/b.js", Modules: nil})
	idx.Add(&FileImports{FilePath: "/a.js", Modules: nil})

	assert.Equal(t, []string{"/a.js", "/b.js"}, idx.Files())
}

func TestIndexConcurrentAccess(t *testing.T) {
	idx := newIndex(t, 100)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				path := fmt.Sprintf("/f%d-%d.js", g, i)
				idx.Add(&FileImports{FilePath: path, Modules: []string{"react"}})
				idx.Get(path)
				idx.Modules()
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	assert.Equal(t, 100, idx.Stats().CachedFiles)
}
