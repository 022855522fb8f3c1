// Package interrogate extracts module-dependency names from unbundled
// JavaScript and TypeScript source, recognizing both CommonJS require()
// and AMD define()/require() call shapes. Parsing is delegated to
// tree-sitter; this package only traverses the resulting tree, classifies
// import-call shapes, and decodes string-literal payloads.
package interrogate

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Kind is the closed node-kind vocabulary the classifier understands.
// Grammar kinds outside this set map to KindOther: such nodes are still
// traversed but never classified.
type Kind int

const (
	KindOther Kind = iota
	KindProgram
	KindCall
	KindIdentifier
	KindString
	KindArray
	KindFuncExpr
)

// String returns the kind name for logging and test failure messages.
func (k Kind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindCall:
		return "call"
	case KindIdentifier:
		return "identifier"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFuncExpr:
		return "func_expr"
	default:
		return "other"
	}
}

// Node is a read-only view over a tree-sitter node plus its source buffer.
// The zero value is invalid; obtain Nodes via Wrap or from another Node's
// accessors. Nodes are cheap to copy and never outlive their tree.
type Node struct {
	inner *ts.Node
	src   []byte
}

// Wrap creates a Node view over a tree-sitter node.
func Wrap(n *ts.Node, source []byte) Node {
	return Node{inner: n, src: source}
}

// Valid reports whether the node wraps an actual tree-sitter node.
func (n Node) Valid() bool {
	return n.inner != nil
}

// Kind maps the underlying grammar kind into the closed vocabulary.
// The JavaScript and TypeScript grammars share kind names for every
// construct the classifier cares about.
func (n Node) Kind() Kind {
	if n.inner == nil {
		return KindOther
	}
	switch n.inner.Kind() {
	case "program":
		return KindProgram
	case "call_expression":
		return KindCall
	case "identifier":
		return KindIdentifier
	case "string":
		return KindString
	case "array":
		return KindArray
	case "function_expression", "function", "generator_function", "arrow_function":
		// Arrow functions are accepted as AMD factories; modern AMD code
		// routinely writes define([...], () => {...}).
		return KindFuncExpr
	default:
		return KindOther
	}
}

// Raw returns the node's source text verbatim. For string literals this
// includes the surrounding quote characters and any escape sequences.
func (n Node) Raw() string {
	if n.inner == nil {
		return ""
	}
	return n.inner.Utf8Text(n.src)
}

// Children returns the node's named children in document order, skipping
// comments. Punctuation and other anonymous tokens are not included.
func (n Node) Children() []Node {
	if n.inner == nil {
		return nil
	}
	count := n.inner.NamedChildCount()
	children := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.inner.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		children = append(children, Node{inner: child, src: n.src})
	}
	return children
}

// Callee returns the function position of a call expression. The second
// return is false when the node is not a call or the field is absent.
func (n Node) Callee() (Node, bool) {
	if n.inner == nil || n.Kind() != KindCall {
		return Node{}, false
	}
	fn := n.inner.ChildByFieldName("function")
	if fn == nil {
		return Node{}, false
	}
	return Node{inner: fn, src: n.src}, true
}

// Args returns the ordered arguments of a call expression. Comments inside
// the argument list are skipped so positions stay stable.
func (n Node) Args() []Node {
	if n.inner == nil || n.Kind() != KindCall {
		return nil
	}
	argList := n.inner.ChildByFieldName("arguments")
	if argList == nil {
		return nil
	}
	return Node{inner: argList, src: n.src}.Children()
}

// Elements returns the ordered elements of an array literal. Element
// positions are significant: the classifier suppresses AMD wrapped-argument
// names by their slot index.
func (n Node) Elements() []Node {
	if n.inner == nil || n.Kind() != KindArray {
		return nil
	}
	return n.Children()
}

// calleeName returns the bare identifier a call is invoked through, or
// "" when the callee is not a plain identifier (member and computed calls).
func (n Node) calleeName() string {
	callee, ok := n.Callee()
	if !ok || callee.Kind() != KindIdentifier {
		return ""
	}
	return callee.Raw()
}
