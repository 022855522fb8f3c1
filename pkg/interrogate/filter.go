package interrogate

// Predicate selects nodes during traversal.
type Predicate func(Node) bool

// FilterStrategy produces an iterator over the descendants of root that
// satisfy pred. ShallowFilter and DeepFilter are the two strategies.
type FilterStrategy func(root Node, pred Predicate) *NodeIterator

// NodeIterator walks a subtree depth-first in document order, yielding
// nodes that satisfy its predicate. Traversal state is an explicit work
// stack, so arbitrarily deep trees never exhaust the call stack. An
// iterator holds no state outside itself; creating a fresh one over the
// same tree restarts the walk.
type NodeIterator struct {
	stack []Node
	pred  Predicate
	deep  bool
}

// ShallowFilter yields matching descendants of root without descending
// past a match: once a node satisfies pred, its subtree is skipped. The
// root itself is never yielded.
func ShallowFilter(root Node, pred Predicate) *NodeIterator {
	return &NodeIterator{stack: pushReversed(nil, root.Children()), pred: pred}
}

// DeepFilter yields every matching descendant of root, descending into
// matches as well, so nested matches inside a matching subtree are still
// found. The root itself is never yielded.
func DeepFilter(root Node, pred Predicate) *NodeIterator {
	return &NodeIterator{stack: pushReversed(nil, root.Children()), pred: pred, deep: true}
}

// Next returns the next matching node in document order. The second
// return is false once the walk is exhausted.
func (it *NodeIterator) Next() (Node, bool) {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		if it.pred(n) {
			if it.deep {
				it.stack = pushReversed(it.stack, n.Children())
			}
			return n, true
		}
		it.stack = pushReversed(it.stack, n.Children())
	}
	return Node{}, false
}

// Collect drains the iterator into a slice.
func (it *NodeIterator) Collect() []Node {
	var nodes []Node
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		nodes = append(nodes, n)
	}
	return nodes
}

// pushReversed pushes children onto the stack in reverse so that popping
// preserves document order.
func pushReversed(stack []Node, children []Node) []Node {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	return stack
}

// isBareCall reports whether a node is a call expression invoked through
// a plain identifier. Calls through member expressions (a.b()) or
// computed expressions are excluded.
func isBareCall(n Node) bool {
	if n.Kind() != KindCall {
		return false
	}
	callee, ok := n.Callee()
	return ok && callee.Kind() == KindIdentifier
}

// FunctionCalls yields the call expressions under root that are invoked
// through a bare identifier, using the given traversal strategy. A nil
// strategy defaults to ShallowFilter.
func FunctionCalls(root Node, strategy FilterStrategy) *NodeIterator {
	if strategy == nil {
		strategy = ShallowFilter
	}
	return strategy(root, isBareCall)
}
