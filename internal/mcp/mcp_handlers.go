package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/commitpulse/core"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// analysisResponse trims the commit list unless the caller asks for it.
type analysisResponse struct {
	Collection schema.CommitCollection `json:"collection"`
	Trends     schema.TrendReport      `json:"trends"`
	Insights   []string                `json:"insights"`
	DurationMS int64                   `json:"duration_ms"`
}

func (h *toolHandler) handleAnalyzeCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateAnalysis(cfg,
		request.GetString("repos", ""),
		request.GetString("branches", ""),
		request.GetString("start", ""),
		request.GetString("end", ""),
		request.GetString("lookback", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			return mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: limit cannot exceed %d", contract.MaxResultLimit)), nil
		}
		cfg.ResultLimit = l
	}

	result, duration, err := core.GetAnalysisResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	resp := analysisResponse{
		Collection: result.Collection,
		Trends:     result.Trends,
		Insights:   result.Insights,
		DurationMS: duration.Milliseconds(),
	}
	if !request.GetBool("include_commits", false) {
		resp.Collection.Commits = nil
	}
	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyCommit(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := request.GetString("message", "")
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	var files []string
	for f := range strings.SplitSeq(request.GetString("files", ""), ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	verdict := core.ClassifyMessage(message, files)
	jsonData, _ := json.MarshalIndent(verdict, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCacheStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetCommitStore() == nil {
		jsonData, _ := json.MarshalIndent(schema.CacheStatus{Backend: string(schema.NoneBackend)}, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}
	status, err := h.mgr.GetCommitStore().GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache status failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
