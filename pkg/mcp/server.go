// Package mcp exposes the theme catalog, validation and usage report as MCP
// tools over stdio.
package mcp

import (
	"context"
	"io"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/cafetheme/pkg/mcplog"
)

const serverName = "cafetheme"

// Server implements the MCP server for cafetheme.
type Server struct {
	mcpServer *server.MCPServer
	state     *State
	tools     []server.ServerTool
	logger    *slog.Logger
}

// NewServer creates an MCP server answering from state. callLog may be nil
// to disable the JSONL call log.
func NewServer(state *State, version string, callLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{state: state, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(mcplog.Middleware(callLog)))
	}
	s.mcpServer = server.NewMCPServer(serverName, version, opts...)

	s.tools = []server.ServerTool{
		{Tool: getConfigTool(), Handler: s.handleGetConfig},
		{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		{Tool: listTokensTool(), Handler: s.handleListTokens},
		{Tool: getTokenTool(), Handler: s.handleGetToken},
		{Tool: resolveClassTool(), Handler: s.handleResolveClass},
		{Tool: validateConfigTool(), Handler: s.handleValidateConfig},
		{Tool: usageReportTool(), Handler: s.handleUsageReport},
	}
	s.mcpServer.AddTools(s.tools...)
	return s
}

// ToolNames returns the names of the registered tools in registration order.
func (s *Server) ToolNames() []string {
	names := make([]string, len(s.tools))
	for i, t := range s.tools {
		names[i] = t.Tool.Name
	}
	return names
}

// ServeStdio serves on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Serve serves on the given streams until ctx is cancelled or in closes.
// Protocol errors go to the server's slog logger.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(slogWriter{s.logger}, "", 0))
	s.logger.Info("mcp server listening on stdio", "tools", len(s.tools))
	return stdio.Listen(ctx, in, out)
}

type slogWriter struct{ logger *slog.Logger }

func (w slogWriter) Write(p []byte) (int, error) {
	w.logger.Error("mcp transport", "message", string(p))
	return len(p), nil
}
