package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"chunkmark/internal/highlight"
	"chunkmark/internal/service"
	"chunkmark/internal/view"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound        = -32001 // No open view or stored document matches
	ErrorCodeUnavailable     = -32002 // Question answering is not configured
	ErrorCodeExternalService = -32003 // Embeddings or vector store call failed
)

// handleOpenDocument handles the open_document tool invocation
func (s *Server) handleOpenDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	url := getStringDefault(args, "url", "")
	if url == "" {
		return nil, missingParam("url")
	}

	info, err := s.service.OpenView(ctx, service.OpenViewRequest{
		URL:         url,
		ContentType: getStringDefault(args, "content_type", ""),
		Body:        getStringDefault(args, "body", ""),
	})
	if err != nil {
		return nil, toolError(err)
	}

	return mcp.NewToolResultText(formatJSON(viewInfoMap(info))), nil
}

// handleHighlightChunks handles the highlight_chunks tool invocation
func (s *Server) handleHighlightChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	viewID := getStringDefault(args, "view_id", "")
	if viewID == "" {
		return nil, missingParam("view_id")
	}

	// Positions go through the same lenient decoding as any other inbound message.
	raw, err := json.Marshal(map[string]interface{}{
		"action":    view.ActionHighlightChunks,
		"positions": args["positions"],
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid positions", map[string]interface{}{
			"param":  "positions",
			"reason": err.Error(),
		})
	}

	result, err := s.service.SendMessage(ctx, viewID, raw)
	if err != nil {
		return nil, toolError(err)
	}

	return mcp.NewToolResultText(formatJSON(resultMap(result))), nil
}

// handleClearHighlights handles the clear_highlights tool invocation
func (s *Server) handleClearHighlights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	viewID, err := requiredViewID(request)
	if err != nil {
		return nil, err
	}

	if err := s.service.ClearHighlights(ctx, viewID); err != nil {
		return nil, toolError(err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"view_id": viewID,
		"cleared": true,
	})), nil
}

// handleAsk handles the ask tool invocation
func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	viewID := getStringDefault(args, "view_id", "")
	if viewID == "" {
		return nil, missingParam("view_id")
	}
	question := getStringDefault(args, "question", "")
	if question == "" {
		return nil, missingParam("question")
	}

	resp, err := s.service.Ask(ctx, viewID, service.AskRequest{
		Question: question,
		K:        getIntDefault(args, "k", 0),
	})
	if err != nil {
		return nil, toolError(err)
	}

	response := resultMap(resp.Result)
	positions := resp.Positions
	if positions == nil {
		positions = []int{}
	}
	response["positions"] = positions

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRenderView handles the render_view tool invocation
func (s *Server) handleRenderView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	viewID, err := requiredViewID(request)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.service.Render(ctx, viewID, &buf); err != nil {
		return nil, toolError(err)
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// handleListViews handles the list_views tool invocation
func (s *Server) handleListViews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := s.service.ListViews(ctx)

	views := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		views = append(views, viewInfoMap(info))
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"views": views,
		"count": len(views),
	})), nil
}

// handleCloseView handles the close_view tool invocation
func (s *Server) handleCloseView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	viewID, err := requiredViewID(request)
	if err != nil {
		return nil, err
	}

	if err := s.service.CloseView(ctx, viewID); err != nil {
		return nil, toolError(err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"view_id": viewID,
		"closed":  true,
	})), nil
}

func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

func requiredViewID(request mcp.CallToolRequest) (string, error) {
	args, err := arguments(request)
	if err != nil {
		return "", err
	}
	viewID := getStringDefault(args, "view_id", "")
	if viewID == "" {
		return "", missingParam("view_id")
	}
	return viewID, nil
}

func missingParam(name string) error {
	return newMCPError(ErrorCodeInvalidParams, name+" parameter is required", map[string]interface{}{
		"param":  name,
		"reason": "missing or empty",
	})
}

// toolError maps a service error onto an MCP error code.
func toolError(err error) error {
	data := map[string]interface{}{"error": err.Error()}
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		data["param"] = validationErr.Field
		return newMCPError(ErrorCodeInvalidParams, validationErr.Message, data)
	case errors.Is(err, service.ErrInvalidInput):
		return newMCPError(ErrorCodeInvalidParams, "invalid request", data)
	case errors.Is(err, service.ErrNotFound):
		return newMCPError(ErrorCodeNotFound, "not found", data)
	case errors.Is(err, service.ErrUnavailable):
		return newMCPError(ErrorCodeUnavailable, "question answering is not configured", data)
	case errors.Is(err, service.ErrExternalService):
		return newMCPError(ErrorCodeExternalService, "external service error", data)
	default:
		return newMCPError(ErrorCodeInternalError, "internal error", data)
	}
}

func viewInfoMap(info service.ViewInfo) map[string]interface{} {
	return map[string]interface{}{
		"view_id":      info.ID,
		"url":          info.URL,
		"content_type": info.ContentType,
		"unit_size":    info.UnitSize,
		"chars":        info.Chars,
		"marks":        info.Marks,
		"created_at":   info.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func resultMap(result highlight.Result) map[string]interface{} {
	chunks := make([]map[string]interface{}, 0, len(result.Chunks))
	for _, c := range result.Chunks {
		chunks = append(chunks, map[string]interface{}{
			"index":   c.Index,
			"start":   c.Range.Start,
			"end":     c.Range.End,
			"marks":   c.Marks,
			"skipped": c.Skipped,
		})
	}
	return map[string]interface{}{
		"marks":         result.Marks,
		"chunks":        chunks,
		"scroll_target": result.ScrollTarget,
	}
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON renders data as indented JSON for text tool results.
func formatJSON(data map[string]interface{}) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(out)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
