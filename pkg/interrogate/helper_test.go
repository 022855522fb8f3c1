package interrogate

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsdeps/pkg/parser"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newManager(t *testing.T) *parser.ParserManager {
	t.Helper()
	manager := parser.NewParserManager(testLogger())
	t.Cleanup(func() { manager.Close() })
	return manager
}

// parseJS parses source as JavaScript and returns the wrapped root node
// plus a cleanup closing the tree.
func parseJS(t *testing.T, source string) (Node, func()) {
	t.Helper()
	manager := newManager(t)
	tree, err := manager.ParseStrict([]byte(source), parser.LanguageJavaScript, false)
	require.NoError(t, err, "test source should parse cleanly")
	return Wrap(tree.RootNode(), []byte(source)), func() { tree.Close() }
}

// firstOfKind returns the first descendant of root with the given kind.
func firstOfKind(t *testing.T, root Node, kind Kind) Node {
	t.Helper()
	it := DeepFilter(root, func(n Node) bool { return n.Kind() == kind })
	node, ok := it.Next()
	require.True(t, ok, "expected a %s node", kind)
	return node
}

// newInterrogator builds an Interrogator with default configuration.
func newInterrogator(t *testing.T) *Interrogator {
	t.Helper()
	return New(newManager(t), WithLogger(testLogger()))
}

// extractJS runs the full pipeline over JavaScript source.
func extractJS(t *testing.T, source string) ([]string, error) {
	t.Helper()
	return newInterrogator(t).ExtractModuleImports([]byte(source), parser.LanguageJavaScript, false)
}
