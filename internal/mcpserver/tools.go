package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// listDiagramsTool defines the list_diagrams MCP tool.
var listDiagramsTool = mcp.NewTool("list_diagrams",
	mcp.WithDescription("List all stored diagrams with their ids, names, and label counts."),
)

// getDiagramSVGTool defines the get_diagram_svg MCP tool.
var getDiagramSVGTool = mcp.NewTool("get_diagram_svg",
	mcp.WithDescription("Get the rendered SVG of a diagram, with label backgrounds synthesized and current overlay state applied."),
	mcp.WithString("diagram_id",
		mcp.Required(),
		mcp.Description("Id of the diagram to render"),
	),
)

// getActiveOverlayTool defines the get_active_overlay MCP tool.
var getActiveOverlayTool = mcp.NewTool("get_active_overlay",
	mcp.WithDescription("Get the id of the overlay last activated on a diagram, or \"none\"."),
	mcp.WithString("diagram_id",
		mcp.Required(),
		mcp.Description("Id of the diagram to inspect"),
	),
)
