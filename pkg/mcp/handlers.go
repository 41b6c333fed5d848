package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
	"github.com/gnana997/cafetheme/pkg/usage"
)

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetConfig(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := theme.ParseFormat(req.GetString("format", "json"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loaded, _, _ := s.state.Snapshot()
	data, err := loader.Render(loaded.Config, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render config: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

type categorySummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TokenCount  int    `json:"token_count"`
}

func (s *Server) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, qs, _ := s.state.Snapshot()
	cats := qs.ListCategories()
	out := make([]categorySummary, len(cats))
	for i, c := range cats {
		out[i] = categorySummary{Name: c.Name, Description: c.Description, TokenCount: len(c.Tokens)}
	}
	return jsonResult(out)
}

func (s *Server) handleListTokens(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, qs, _ := s.state.Snapshot()
	return jsonResult(qs.ListTokens(req.GetString("category", ""), req.GetString("keyword", "")))
}

func (s *Server) handleGetToken(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, qs, _ := s.state.Snapshot()
	tok, ok := qs.GetToken(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("token %q not found; call list_tokens to see what is defined", name)), nil
	}
	return jsonResult(tok)
}

type classResult struct {
	Found bool `json:"found"`
	catalog.ClassResolution
}

func (s *Server) handleResolveClass(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	class, err := req.RequireString("class")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, qs, _ := s.state.Snapshot()
	res, found := qs.ResolveClass(class)
	return jsonResult(classResult{Found: found, ClassResolution: res})
}

type validationResult struct {
	Path   string        `json:"path"`
	Valid  bool          `json:"valid"`
	Issues []theme.Issue `json:"issues"`
}

func (s *Server) handleValidateConfig(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loaded, _, _ := s.state.Snapshot()
	issues := catalog.Lint(loaded.Config)
	if issues == nil {
		issues = []theme.Issue{}
	}
	return jsonResult(validationResult{
		Path:   loaded.Path,
		Valid:  !theme.HasErrors(issues),
		Issues: issues,
	})
}

func (s *Server) handleUsageReport(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, qs, index := s.state.Snapshot()
	if index == nil {
		return mcp.NewToolResultError("no content index: the server was started without a content scan"), nil
	}
	return jsonResult(usage.Analyze(qs, index))
}
