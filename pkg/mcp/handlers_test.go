package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsdeps/pkg/indexer"
	"github.com/gnana997/jsdeps/pkg/interrogate"
	"github.com/gnana997/jsdeps/pkg/parser"
)

// --- helpers ---

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	pm := parser.NewParserManager(logger)
	t.Cleanup(func() { pm.Close() })

	in := interrogate.New(pm, interrogate.WithLogger(logger))
	idx, err := indexer.NewDependencyIndex(indexer.DefaultIndexConfig(), logger)
	require.NoError(t, err)
	scanner := indexer.NewWorkspaceScanner(in, idx, nil, logger)

	return NewServer(in, idx, scanner, nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "extract_imports":
		handler = s.handleExtractImports
	case "get_file_imports":
		handler = s.handleGetFileImports
	case "list_modules":
		handler = s.handleListModules
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- extract_imports ---

func TestHandleExtractImports(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("extract_imports", map[string]any{
		"source": `var a = require("a"); define(["b", "c"], function(b, c) {});`,
	}))
	assert.False(t, result.IsError)

	var payload struct {
		Modules []string `json:"modules"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &payload))
	assert.Equal(t, []string{"a", "b", "c"}, payload.Modules)
	assert.Equal(t, 3, payload.Count)
}

func TestHandleExtractImportsTypeScript(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("extract_imports", map[string]any{
		"source":   `const fs: typeof import("fs") = require("fs");`,
		"language": "typescript",
	}))
	assert.False(t, result.IsError)

	var payload struct {
		Modules []string `json:"modules"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &payload))
	assert.Contains(t, payload.Modules, "fs")
}

func TestHandleExtractImportsMissingSource(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("extract_imports", nil))
	assert.True(t, result.IsError)
}

func TestHandleExtractImportsUnknownLanguage(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("extract_imports", map[string]any{
		"source":   `require("x");`,
		"language": "rust",
	}))
	assert.True(t, result.IsError)
}

func TestHandleExtractImportsParseError(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("extract_imports", map[string]any{
		"source": `require("x`,
	}))
	assert.True(t, result.IsError)
}

// --- get_file_imports ---

func TestHandleGetFileImports(t *testing.T) {
	s := testServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(path, []byte(`require("react");`), 0o644))

	result := callTool(t, s, makeRequest("get_file_imports", map[string]any{
		"file_path": path,
	}))
	assert.False(t, result.IsError)

	var payload struct {
		FilePath    string   `json:"file_path"`
		Modules     []string `json:"modules"`
		ContentHash string   `json:"content_hash"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &payload))
	assert.Equal(t, path, payload.FilePath)
	assert.Equal(t, []string{"react"}, payload.Modules)
	assert.NotEmpty(t, payload.ContentHash)

	// Second call serves from the index.
	result = callTool(t, s, makeRequest("get_file_imports", map[string]any{
		"file_path": path,
	}))
	assert.False(t, result.IsError)
	assert.Greater(t, s.index.Stats().CacheHits, int64(0))
}

func TestHandleGetFileImportsMissingFile(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("get_file_imports", map[string]any{
		"file_path": filepath.Join(t.TempDir(), "nope.js"),
	}))
	assert.True(t, result.IsError)
}

// --- list_modules ---

func TestHandleListModules(t *testing.T) {
	s := testServer(t)

	s.index.Add(&indexer.FileImports{FilePath: "/a.js", Modules: []string{"react", "lodash"}})
	s.index.Add(&indexer.FileImports{FilePath: "/b.js", Modules: []string{"react"}})

	result := callTool(t, s, makeRequest("list_modules", nil))
	assert.False(t, result.IsError)

	var payload struct {
		Modules []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"modules"`
		FileCount   int `json:"file_count"`
		ModuleCount int `json:"module_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &payload))
	require.Len(t, payload.Modules, 2)
	assert.Equal(t, "lodash", payload.Modules[0].Name)
	assert.Equal(t, "react", payload.Modules[1].Name)
	assert.Equal(t, 2, payload.Modules[1].Count)
	assert.Equal(t, 2, payload.FileCount)
	assert.Equal(t, 2, payload.ModuleCount)
}

func TestHandleListModulesEmpty(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("list_modules", nil))
	assert.False(t, result.IsError)

	var payload struct {
		Modules     []any `json:"modules"`
		ModuleCount int   `json:"module_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &payload))
	assert.Empty(t, payload.Modules)
	assert.Equal(t, 0, payload.ModuleCount)
}
