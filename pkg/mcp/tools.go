package mcp

import "github.com/mark3labs/mcp-go/mcp"

func extractImportsTool() mcp.Tool {
	return mcp.NewTool("extract_imports",
		mcp.WithDescription("Extract CommonJS require() and AMD define()/require() module imports from a JavaScript or TypeScript source snippet"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source code to analyze"),
		),
		mcp.WithString("language",
			mcp.Description("Source language: javascript (default) or typescript"),
		),
		mcp.WithBoolean("tsx",
			mcp.Description("Parse TypeScript as TSX"),
		),
	)
}

func getFileImportsTool() mcp.Tool {
	return mcp.NewTool("get_file_imports",
		mcp.WithDescription("Return the module imports of one workspace file, extracting and indexing it on demand"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the file"),
		),
	)
}

func listModulesTool() mcp.Tool {
	return mcp.NewTool("list_modules",
		mcp.WithDescription("List every module imported by the indexed files with usage counts"),
	)
}
