package parser

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// ParseError reports syntactically invalid source. Line and Column are
// 0-based positions of the first error or missing node tree-sitter
// reported; Snippet holds up to a few dozen bytes of the offending text.
type ParseError struct {
	Line    uint
	Column  uint
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("parse error at line %d, column %d", e.Line+1, e.Column)
	}
	return fmt.Sprintf("parse error at line %d, column %d near %q", e.Line+1, e.Column, e.Snippet)
}

// newParseError locates the first error-bearing node under root and
// builds a ParseError from its position. root must satisfy HasError.
func newParseError(root *ts.Node, source []byte) *ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPosition()
	snippet := bad.Utf8Text(source)
	const maxSnippet = 40
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}
	return &ParseError{Line: pos.Row, Column: pos.Column, Snippet: snippet}
}

// firstErrorNode walks the full tree (anonymous nodes included) in
// document order and returns the first ERROR or missing node.
func firstErrorNode(root *ts.Node) *ts.Node {
	stack := []*ts.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsError() || n.IsMissing() {
			return n
		}
		if !n.HasError() {
			continue
		}
		for i := n.ChildCount(); i > 0; i-- {
			if child := n.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return nil
}
