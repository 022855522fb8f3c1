package util

import "runtime"

// OptimalPoolSize returns the pool size used for CPU-bound parallel work:
// min(max(NumCPU*2, 4), 32). Tree-sitter parsing spends much of its time
// inside CGO, so 2x cores keeps the scheduler busy during those blocks.
//
// Both the parser pool and the indexer worker pool use this value; the
// two must stay in sync or workers block waiting for parsers.
func OptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// PoolSizeWithOverride returns override when positive, otherwise the
// CPU-derived default. Used to honor the worker count config knob.
func PoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return OptimalPoolSize()
}
