// Package mcp exposes module import extraction over the Model Context
// Protocol so editor agents can query a workspace's dependency graph.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/jsdeps/pkg/indexer"
	"github.com/gnana997/jsdeps/pkg/interrogate"
	"github.com/gnana997/jsdeps/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server, exposing import extraction and
// dependency index query tools.
type Server struct {
	mcpServer    *server.MCPServer
	interrogator *interrogate.Interrogator
	index        *indexer.DependencyIndex
	scanner      *indexer.WorkspaceScanner
	logger       *mcplog.Logger // nil disables tool-call logging
}

// NewServer creates an MCP server backed by the given interrogator and
// dependency index. A nil mcplog.Logger disables JSONL tool-call logging.
func NewServer(in *interrogate.Interrogator, idx *indexer.DependencyIndex, scanner *indexer.WorkspaceScanner, logger *mcplog.Logger) *Server {
	s := &Server{
		interrogator: in,
		index:        idx,
		scanner:      scanner,
		logger:       logger,
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(
		"jsdeps",
		serverVersion,
		opts...,
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: extractImportsTool(), Handler: s.handleExtractImports},
		server.ServerTool{Tool: getFileImportsTool(), Handler: s.handleGetFileImports},
		server.ServerTool{Tool: listModulesTool(), Handler: s.handleListModules},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
