package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func viewIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "ID returned by open_document",
	}
}

// openDocumentTool returns the tool definition for open_document
func openDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "open_document",
		Description: "Open a document as a highlightable view. Without a body the stored copy of the URL is reopened.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Address the document was loaded from",
				},
				"content_type": map[string]interface{}{
					"type":        "string",
					"description": "Media type of the body",
					"enum":        []string{"text/html", "text/markdown", "text/plain"},
					"default":     "text/html",
				},
				"body": map[string]interface{}{
					"type":        "string",
					"description": "Document source",
				},
			},
			Required: []string{"url"},
		},
	}
}

// highlightChunksTool returns the tool definition for highlight_chunks
func highlightChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "highlight_chunks",
		Description: "Replace the view's highlights with marks over the given chunk positions and scroll to the first one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"view_id": viewIDProperty(),
				"positions": map[string]interface{}{
					"type":        "array",
					"description": "Zero-based chunk indices; an empty list clears the view",
					"items": map[string]interface{}{
						"type":    "integer",
						"minimum": 0,
					},
				},
			},
			Required: []string{"view_id", "positions"},
		},
	}
}

// clearHighlightsTool returns the tool definition for clear_highlights
func clearHighlightsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_highlights",
		Description: "Remove every highlight from a view",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"view_id": viewIDProperty(),
			},
			Required: []string{"view_id"},
		},
	}
}

// askTool returns the tool definition for ask
func askTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask",
		Description: "Highlight the chunks of a view that best answer a question",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"view_id": viewIDProperty(),
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Natural language question",
				},
				"k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of chunks to highlight",
					"default":     5,
					"minimum":     1,
					"maximum":     20,
				},
			},
			Required: []string{"view_id", "question"},
		},
	}
}

// renderViewTool returns the tool definition for render_view
func renderViewTool() mcp.Tool {
	return mcp.Tool{
		Name:        "render_view",
		Description: "Render a view, including its highlights, as HTML",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"view_id": viewIDProperty(),
			},
			Required: []string{"view_id"},
		},
	}
}

// listViewsTool returns the tool definition for list_views
func listViewsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_views",
		Description: "List the open views",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// closeViewTool returns the tool definition for close_view
func closeViewTool() mcp.Tool {
	return mcp.Tool{
		Name:        "close_view",
		Description: "Close a view and drop its highlights",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"view_id": viewIDProperty(),
			},
			Required: []string{"view_id"},
		},
	}
}
