package parser

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestParseJavaScript(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tree, err := manager.Parse([]byte(`var x = require("x");`), LanguageJavaScript, false)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, "program", tree.RootNode().Kind())
}

func TestParseTypeScript(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tree, err := manager.Parse([]byte(`const x: number = 1;`), LanguageTypeScript, false)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, "program", tree.RootNode().Kind())
	assert.False(t, tree.RootNode().HasError())
}

func TestParseTSX(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tree, err := manager.Parse([]byte(`const el = <div>hello</div>;`), LanguageTypeScript, true)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Contains(t, tree.RootNode().ToSexp(), "jsx_element")
}

func TestParseUnknownLanguage(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	_, err := manager.Parse([]byte(`x`), LanguageUnknown, false)
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	testCases := []struct {
		fileName string
		source   string
	}{
		{"sample.js", `require("a");`},
		{"sample.cjs", `module.exports = {};`},
		{"sample.ts", `const x: string = "s";`},
		{"sample.tsx", `const e = <span/>;`},
	}

	for _, tc := range testCases {
		t.Run(tc.fileName, func(t *testing.T) {
			tree, err := manager.ParseFile([]byte(tc.source), tc.fileName)
			require.NoError(t, err)
			require.NotNil(t, tree)
			defer tree.Close()
			assert.Equal(t, "program", tree.RootNode().Kind())
		})
	}
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	_, err := manager.ParseFile([]byte(`body {}`), "styles.css")
	assert.Error(t, err)
}

func TestParseStrictValidSource(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tree, err := manager.ParseStrict([]byte(`define(["a"], function(a) {});`), LanguageJavaScript, false)
	require.NoError(t, err)
	require.NotNil(t, tree)
	tree.Close()
}

func TestParseStrictInvalidSource(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	testCases := []struct {
		name   string
		source string
	}{
		{"unbalanced paren", `require("x"`},
		{"unbalanced brace", `function f() {`},
		{"stray bracket", `var a = ][;`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := manager.ParseStrict([]byte(tc.source), LanguageJavaScript, false)
			require.Error(t, err)
			assert.Nil(t, tree)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.NotEmpty(t, perr.Error())
		})
	}
}

func TestLazyInitialization(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	stats := manager.Stats()
	assert.Equal(t, 0, stats.ParsersCreated, "no parsers before first parse")

	tree, err := manager.Parse([]byte(`var x = 1;`), LanguageJavaScript, false)
	require.NoError(t, err)
	tree.Close()

	stats = manager.Stats()
	assert.Equal(t, 1, stats.ParsersCreated)
	assert.Equal(t, 1, stats.ParsesCalled)

	tree, err = manager.Parse([]byte(`var y = 2;`), LanguageJavaScript, false)
	require.NoError(t, err)
	tree.Close()

	stats = manager.Stats()
	assert.Equal(t, 1, stats.ParsersCreated, "second parse reuses the pooled parser")
	assert.Equal(t, 2, stats.ParsesCalled)
}

func TestDetectLanguage(t *testing.T) {
	testCases := []struct {
		path string
		want Language
	}{
		{"a.js", LanguageJavaScript},
		{"a.jsx", LanguageJavaScript},
		{"a.mjs", LanguageJavaScript},
		{"a.cjs", LanguageJavaScript},
		{"a.ts", LanguageTypeScript},
		{"a.tsx", LanguageTypeScript},
		{"a.mts", LanguageTypeScript},
		{"A.JS", LanguageJavaScript},
		{"a.css", LanguageUnknown},
		{"noext", LanguageUnknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, DetectLanguage(tc.path), tc.path)
	}

	assert.True(t, IsTSXFile("a.tsx"))
	assert.False(t, IsTSXFile("a.ts"))
}

func TestParseLanguageString(t *testing.T) {
	assert.Equal(t, LanguageJavaScript, ParseLanguageString("js"))
	assert.Equal(t, LanguageTypeScript, ParseLanguageString("TypeScript"))
	assert.Equal(t, LanguageUnknown, ParseLanguageString("rust"))
}
