package parser

import (
	"github.com/gnana997/jsdeps/pkg/util"
)

// defaultPoolSize returns the per-language parser pool capacity.
//
// Delegates to util.OptimalPoolSize so the parser pool and the indexer
// worker pool are always sized identically; a worker count above the
// parser count would make workers block on acquire.
func defaultPoolSize() int {
	return util.OptimalPoolSize()
}
