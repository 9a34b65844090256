// Package mcpserver exposes stored diagrams to AI agents over the Model
// Context Protocol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/genomeviz/exonview/internal/diagram"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes diagram retrieval tools.
type Server struct {
	store    *diagram.Store
	sessions *diagram.Manager
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(store *diagram.Store, sessions *diagram.Manager) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
	}

	s.mcp = server.NewMCPServer(
		"exonview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listDiagramsTool, s.handleListDiagrams)
	s.mcp.AddTool(getDiagramSVGTool, s.handleGetDiagramSVG)
	s.mcp.AddTool(getActiveOverlayTool, s.handleGetActiveOverlay)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
