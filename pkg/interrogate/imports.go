package interrogate

// ImportIterator yields decoded module names lazily in document order.
// Duplicates are preserved: a module required twice is yielded twice.
type ImportIterator struct {
	calls   *NodeIterator
	checks  []ImportCheck
	pending []string
}

// YieldModuleImports walks the tree under root with the deep strategy, so
// require/define calls nested inside another recognized call's factory
// body are still discovered, and classifies every bare-identifier call
// against the checks in order. The first matching check's extractor runs;
// later checks are skipped. On well-formed input the checks are mutually
// exclusive by callee name, so first-match-wins is unobservable there.
func YieldModuleImports(root Node, checks []ImportCheck) *ImportIterator {
	return &ImportIterator{
		calls:  FunctionCalls(root, DeepFilter),
		checks: checks,
	}
}

// Next returns the next module name. The second return is false once the
// tree is exhausted.
func (it *ImportIterator) Next() (string, bool) {
	for {
		if len(it.pending) > 0 {
			name := it.pending[0]
			it.pending = it.pending[1:]
			return name, true
		}
		call, ok := it.calls.Next()
		if !ok {
			return "", false
		}
		for _, check := range it.checks {
			if check.Match(call) {
				it.pending = check.Extract(call)
				break
			}
		}
	}
}

// Collect drains the iterator into a slice. Returns an empty non-nil
// slice when no imports were found.
func (it *ImportIterator) Collect() []string {
	names := make([]string, 0)
	for name, ok := it.Next(); ok; name, ok = it.Next() {
		names = append(names, name)
	}
	return names
}

// ArgumentIterator yields the decoded argument at a fixed position of
// every bare call to a fixed function name.
type ArgumentIterator struct {
	calls    *NodeIterator
	name     string
	argIndex int
	argKind  Kind
}

// FilterFunctionArgument yields, for every bare call to name found by a
// shallow walk under root, the decoded argument at argIndex when that
// argument exists and has kind argKind. Useful for one-off extractions
// such as pulling the URL out of importScripts("...") style calls.
func FilterFunctionArgument(root Node, name string, argIndex int, argKind Kind) *ArgumentIterator {
	return &ArgumentIterator{
		calls:    FunctionCalls(root, ShallowFilter),
		name:     name,
		argIndex: argIndex,
		argKind:  argKind,
	}
}

// Next returns the next decoded argument. The second return is false
// once the tree is exhausted.
func (it *ArgumentIterator) Next() (string, bool) {
	for {
		call, ok := it.calls.Next()
		if !ok {
			return "", false
		}
		if call.calleeName() != it.name {
			continue
		}
		args := call.Args()
		if it.argIndex >= len(args) || args[it.argIndex].Kind() != it.argKind {
			continue
		}
		return DecodeString(args[it.argIndex]), true
	}
}

// Collect drains the iterator into a slice.
func (it *ArgumentIterator) Collect() []string {
	values := make([]string, 0)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		values = append(values, v)
	}
	return values
}
