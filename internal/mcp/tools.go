package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apisurface/distill/internal/distiller"
)

// addDistillTool registers distill_project: run a distillation over a
// directory and return the API surface as JSON.
func (s *Server) addDistillTool(srv *server.MCPServer) {
	tool := mcp.NewTool(
		"distill_project",
		mcp.WithDescription("Distill a source tree down to its public API surface: signatures, types, and docstrings with all implementation bodies removed. Returns structured JSON with per-file exports, a dependency map, and token metrics."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the directory or file to distill")),
		mcp.WithBoolean("include_private",
			mcp.Description("Include private symbols in addition to public ones (default: false)")),
		mcp.WithBoolean("include_tests",
			mcp.Description("Include test files (default: false)")),
		mcp.WithNumber("workers",
			mcp.Description("Worker pool size; 1 forces sequential processing (default: 4)")),
	)
	srv.AddTool(tool, s.handleDistill)
}

func (s *Server) handleDistill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := argsMap["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	opts := distiller.DefaultOptions()
	if v, ok := argsMap["include_private"].(bool); ok {
		opts.IncludePrivate = v
		opts.IncludeProtected = v
		opts.IncludeInternal = v
	}
	if v, ok := argsMap["include_tests"].(bool); ok {
		opts.IncludeTests = v
	}
	if v, ok := argsMap["workers"].(float64); ok && int(v) >= 1 {
		opts.Workers = int(v)
	}

	result, err := s.orchestrator.DiscoverAndRun(ctx, path, path, opts, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("distillation failed: %v", err)), nil
	}
	s.rememberResult(result)

	jsonData, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// addSearchTool registers distill_search: query the symbols of the most
// recent distillation.
func (s *Server) addSearchTool(srv *server.MCPServer) {
	tool := mcp.NewTool(
		"distill_search",
		mcp.WithDescription("Search symbols from the most recent distill_project run by name, signature, or docstring text. Run distill_project first."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms (e.g. 'create user', 'HandleRequest')")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10)")),
	)
	srv.AddTool(tool, s.handleSearch)
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	query, ok := argsMap["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	limit := 10
	if v, ok := argsMap["limit"].(float64); ok && int(v) > 0 {
		limit = int(v)
	}

	s.mu.Lock()
	idx := s.lastIndex
	runID := s.lastRun
	s.mu.Unlock()

	if idx == nil {
		return mcp.NewToolResultError("no distillation available yet; call distill_project first"), nil
	}

	hits, err := idx.Query(query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"run_id": runID,
		"total":  len(hits),
		"hits":   hits,
	}
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
