package interrogate

// Config carries the reserved-word tables the list extractor consults.
// Values are copied at construction; a Config is never mutated after
// Checks has been called with it.
type Config struct {
	// Reserved holds module names that are never reported as
	// dependencies wherever they appear in a dependency array.
	Reserved map[string]struct{}

	// WrappedSlots maps dependency-array positions to the canonical AMD
	// wrapped-argument names. A string element equal to its slot's name
	// is a factory-parameter declaration, not a dependency.
	WrappedSlots map[int]string
}

// DefaultConfig returns the canonical AMD tables: "module" is globally
// reserved, and slots 0..2 are require/exports/module.
func DefaultConfig() Config {
	return Config{
		Reserved: map[string]struct{}{"module": {}},
		WrappedSlots: map[int]string{
			0: "require",
			1: "exports",
			2: "module",
		},
	}
}

// ImportCheck pairs a shape predicate with an extractor. Match must be
// side-effect free; Extract is only invoked on nodes Match accepted.
type ImportCheck struct {
	Match   func(call Node) bool
	Extract func(call Node) []string
}

// Checks builds the ordered import-shape table over the given config.
//
// The four recognized shapes, tried in order:
//
//  1. require("name")                          CommonJS
//  2. require(["a", "b"], function(a, b) {})   AMD require
//  3. define(["a", "b"], function(a, b) {})    anonymous AMD define
//  4. define("id", ["a", "b"], function() {})  named AMD define
//
// Shapes 2 and 3 differ only by callee name; shape 4 skips the module's
// own id. Anything else a require/define call does is not an import.
func Checks(cfg Config) []ImportCheck {
	return []ImportCheck{
		{
			Match: func(call Node) bool {
				args := call.Args()
				return len(args) == 1 &&
					args[0].Kind() == KindString &&
					call.calleeName() == "require"
			},
			Extract: func(call Node) []string {
				return []string{DecodeString(call.Args()[0])}
			},
		},
		{
			Match: func(call Node) bool {
				args := call.Args()
				return len(args) >= 2 &&
					args[0].Kind() == KindArray &&
					args[1].Kind() == KindFuncExpr &&
					call.calleeName() == "require"
			},
			Extract: listExtractor(cfg, 0),
		},
		{
			Match: func(call Node) bool {
				args := call.Args()
				return len(args) >= 2 &&
					args[0].Kind() == KindArray &&
					args[1].Kind() == KindFuncExpr &&
					call.calleeName() == "define"
			},
			Extract: listExtractor(cfg, 0),
		},
		{
			Match: func(call Node) bool {
				args := call.Args()
				return len(args) >= 3 &&
					args[0].Kind() == KindString &&
					args[1].Kind() == KindArray &&
					args[2].Kind() == KindFuncExpr &&
					call.calleeName() == "define"
			},
			Extract: listExtractor(cfg, 1),
		},
	}
}

// listExtractor decodes the String elements of the dependency array at
// argument position pos. Reserved names and wrapped-slot matches are
// suppressed; non-String elements are dynamically computed dependencies
// and are silently skipped.
func listExtractor(cfg Config, pos int) func(Node) []string {
	return func(call Node) []string {
		args := call.Args()
		if pos >= len(args) {
			return nil
		}
		var names []string
		for i, elem := range args[pos].Elements() {
			if elem.Kind() != KindString {
				continue
			}
			name := DecodeString(elem)
			if _, reserved := cfg.Reserved[name]; reserved {
				continue
			}
			if cfg.WrappedSlots[i] == name {
				continue
			}
			names = append(names, name)
		}
		return names
	}
}
