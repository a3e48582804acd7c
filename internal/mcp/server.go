// Package mcp exposes the view service as MCP tools over stdio, so an agent
// can open a document, highlight chunks of it and render the result.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"chunkmark/internal/service"
)

const (
	// ServerName is the MCP server name
	ServerName = "chunkmark"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	service service.HighlightService
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc service.HighlightService) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		service: svc,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(openDocumentTool(), s.handleOpenDocument)
	s.mcp.AddTool(highlightChunksTool(), s.handleHighlightChunks)
	s.mcp.AddTool(clearHighlightsTool(), s.handleClearHighlights)
	s.mcp.AddTool(askTool(), s.handleAsk)
	s.mcp.AddTool(renderViewTool(), s.handleRenderView)
	s.mcp.AddTool(listViewsTool(), s.handleListViews)
	s.mcp.AddTool(closeViewTool(), s.handleCloseView)
}
