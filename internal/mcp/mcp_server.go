// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the commitpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Commitpulse Analysis Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_commits ---
	s.AddTool(mcp.NewTool("analyze_commits",
		mcp.WithDescription("Collect, classify and analyze recent commits across branches. Returns the collection, trends and insights."),
		mcp.WithString("repos", mcp.Description("Comma separated repositories: local paths, or owner/name for the github source. Defaults to the server configuration.")),
		mcp.WithString("branches", mcp.Description("Comma separated branches to scan. Defaults to enumerating the repository branches.")),
		mcp.WithString("lookback", mcp.Description("Time window ending now (e.g., '24 hours', '7 days').")),
		mcp.WithString("start", mcp.Description("Window start (RFC3339, YYYY-MM-DD, or relative like '3 days ago'). Overrides lookback.")),
		mcp.WithString("end", mcp.Description("Window end. Defaults to now.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of contributors and files in each ranking (0 keeps the defaults).")),
		mcp.WithBoolean("include_commits", mcp.Description("Include the full commit list in the response. Defaults to false.")),
	), h.handleAnalyzeCommits)

	// --- 2. Tool: classify_commit ---
	s.AddTool(mcp.NewTool("classify_commit",
		mcp.WithDescription("Classify a single commit message into a category and breaking, security and performance flags."),
		mcp.WithString("message", mcp.Description("The full commit message."), mcp.Required()),
		mcp.WithString("files", mcp.Description("Comma separated paths touched by the commit.")),
	), h.handleClassifyCommit)

	// --- 3. Tool: get_cache_status ---
	s.AddTool(mcp.NewTool("get_cache_status",
		mcp.WithDescription("Report entries, age and size of the commit fetch cache."),
	), h.handleGetCacheStatus)

	return s
}

// StartMCPServer starts the commitpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
