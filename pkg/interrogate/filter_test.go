package interrogate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isCall(n Node) bool { return n.Kind() == KindCall }

func TestShallowFilterStopsAtMatch(t *testing.T) {
	root, done := parseJS(t, `outer(inner());`)
	defer done()

	calls := ShallowFilter(root, isCall).Collect()
	require.Len(t, calls, 1, "shallow filter should not descend past a match")

	callee, ok := calls[0].Callee()
	require.True(t, ok)
	assert.Equal(t, "outer", callee.Raw())
}

func TestDeepFilterDescendsIntoMatches(t *testing.T) {
	root, done := parseJS(t, `outer(inner());`)
	defer done()

	calls := DeepFilter(root, isCall).Collect()
	require.Len(t, calls, 2)

	first, _ := calls[0].Callee()
	second, _ := calls[1].Callee()
	assert.Equal(t, "outer", first.Raw(), "document order: outer first")
	assert.Equal(t, "inner", second.Raw())
}

func TestDeepFilterVisitsEveryNode(t *testing.T) {
	root, done := parseJS(t, `a(); function f() { b(); } c();`)
	defer done()

	var names []string
	it := DeepFilter(root, isCall)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		callee, _ := n.Callee()
		names = append(names, callee.Raw())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestFilterIsRestartable(t *testing.T) {
	root, done := parseJS(t, `a(); b();`)
	defer done()

	first := DeepFilter(root, isCall).Collect()
	second := DeepFilter(root, isCall).Collect()
	assert.Equal(t, len(first), len(second), "fresh iterators restart the walk")
}

func TestFunctionCallsExcludesMemberCalls(t *testing.T) {
	root, done := parseJS(t, `a.b("x"); c("y"); d["e"]("z");`)
	defer done()

	calls := FunctionCalls(root, nil).Collect()
	require.Len(t, calls, 1, "only bare-identifier calls qualify")

	callee, _ := calls[0].Callee()
	assert.Equal(t, "c", callee.Raw())
}

func TestFunctionCallsDefaultsToShallow(t *testing.T) {
	root, done := parseJS(t, `f(g());`)
	defer done()

	assert.Len(t, FunctionCalls(root, nil).Collect(), 1)
	assert.Len(t, FunctionCalls(root, DeepFilter).Collect(), 2)
}

func TestIteratorExhaustion(t *testing.T) {
	root, done := parseJS(t, `a();`)
	defer done()

	it := FunctionCalls(root, nil)
	_, ok := it.Next()
	require.True(t, ok)

	_, ok = it.Next()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok, "exhausted iterator stays exhausted")
}
