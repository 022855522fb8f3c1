package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/jsdeps/pkg/parser"
)

func (s *Server) handleExtractImports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lang := parser.LanguageJavaScript
	if langStr := req.GetString("language", ""); langStr != "" {
		lang = parser.ParseLanguageString(langStr)
		if lang == parser.LanguageUnknown {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported language: %s", langStr)), nil
		}
	}
	isTSX := req.GetBool("tsx", false)

	modules, err := s.interrogator.ExtractModuleImports([]byte(source), lang, isTSX)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"modules": modules,
		"count":   len(modules),
	})
}

func (s *Server) handleGetFileImports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Serve from the index when the file is already cached; extract on
	// demand otherwise.
	fi, ok := s.index.Get(filePath)
	if !ok {
		fi, err = s.scanner.ScanFile(filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return jsonResult(map[string]any{
		"file_path":    fi.FilePath,
		"modules":      fi.Modules,
		"content_hash": fi.ContentHash,
	})
}

func (s *Server) handleListModules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	usage := s.index.Modules()

	modules := make([]map[string]any, 0, len(usage))
	for _, u := range usage {
		modules = append(modules, map[string]any{
			"name":  u.Name,
			"count": u.Count,
		})
	}

	stats := s.index.Stats()
	return jsonResult(map[string]any{
		"modules":      modules,
		"file_count":   stats.CachedFiles,
		"module_count": stats.UniqueModules,
	})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
