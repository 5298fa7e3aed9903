// Package mcp routes MCP JSON-RPC methods to the tool registry and carries
// the stdio transport.
package mcp

import (
	"context"
	"encoding/json"

	"canvasmcp/server/internal/db"
	"canvasmcp/server/internal/jsonrpc"
	"canvasmcp/server/internal/modules"
)

const serverVersion = "0.1.0"

// Handler routes JSON-RPC requests. The usage store is optional; when nil,
// tool calls are simply not recorded.
type Handler struct {
	usage *db.Store
}

// NewHandler creates a request handler.
func NewHandler(usage *db.Store) *Handler {
	return &Handler{usage: usage}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transports.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "tools/list":
		return h.handleToolsList(), nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    "canvas-mcp",
			Version: serverVersion,
		},
	}
}

func (h *Handler) handleToolsList() *ToolsListResult {
	tools := modules.AllTools()
	tools = append(tools, modules.BatchTool())
	return &ToolsListResult{Tools: tools}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*modules.ToolCallResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "Invalid params"}
	}

	var params ToolCallParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "name is required"}
	}
	if params.Arguments == nil {
		params.Arguments = make(map[string]any)
	}

	var result *modules.ToolCallResult
	if params.Name == "batch" {
		commands, ok := params.Arguments["commands"].(string)
		if !ok {
			return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "commands must be a string"}
		}
		result = modules.Batch(ctx, commands)
	} else {
		result = modules.Run(ctx, params.Name, params.Arguments)
	}

	if h.usage != nil {
		status := "success"
		if result.IsError {
			status = "error"
		}
		h.usage.RecordUsage(params.Name, modules.RequestIDFromContext(ctx), status)
	}
	return result, nil
}

// ErrorResponse builds a JSON-RPC error response for the given request id.
func ErrorResponse(id interface{}, code int, message string) *jsonrpc.Response {
	return &jsonrpc.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpc.Error{Code: code, Message: message},
	}
}

// SuccessResponse builds a JSON-RPC success response.
func SuccessResponse(id, result interface{}) *jsonrpc.Response {
	return &jsonrpc.Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}
