package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleListDiagrams returns a plain-text listing of every stored diagram.
func (s *Server) handleListDiagrams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diagrams, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing diagrams failed: %v", err)), nil
	}

	if len(diagrams) == 0 {
		return mcp.NewToolResultText("No diagrams stored. Run `exonview import` to load some."), nil
	}

	var b strings.Builder
	for _, d := range diagrams {
		fmt.Fprintf(&b, "%s  %s  (%d labels)\n", d.ID, d.Name, len(d.LabelIDs))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetDiagramSVG renders a diagram's current state.
func (s *Server) handleGetDiagramSVG(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("diagram_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: diagram_id"), nil
	}

	sess, err := s.sessions.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opening diagram %q: %v", id, err)), nil
	}

	svg, err := sess.Render(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering diagram %q: %v", id, err)), nil
	}
	return mcp.NewToolResultText(svg), nil
}

// handleGetActiveOverlay reports a diagram's active-id register value.
func (s *Server) handleGetActiveOverlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("diagram_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: diagram_id"), nil
	}

	sess, err := s.sessions.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opening diagram %q: %v", id, err)), nil
	}

	active, err := sess.Active(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading state of %q: %v", id, err)), nil
	}
	return mcp.NewToolResultText(active), nil
}
