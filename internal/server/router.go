package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mahecode/gamethinking-mcp-server/internal/thinking"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Router sits in front of MCPServer.HandleMessage. mcp-go answers a call
// to an unregistered tool with a JSON-RPC protocol error; Router answers
// it with a regular tool result flagged isError so clients always get a
// well-formed tool response.
type Router struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewRouter wraps s.
func NewRouter(s *server.MCPServer, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{mcp: s, logger: logger}
}

// toolCallEnvelope is the subset of a tools/call request Router inspects.
type toolCallEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  struct {
		Name string `json:"name"`
	} `json:"params"`
}

// HandleMessage processes one JSON-RPC message and returns the response,
// or nil for notifications.
func (r *Router) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	var env toolCallEnvelope
	if err := json.Unmarshal(raw, &env); err == nil &&
		env.JSONRPC == mcp.JSONRPC_VERSION &&
		env.ID != nil &&
		env.Method == string(mcp.MethodToolsCall) &&
		r.mcp.GetTool(env.Params.Name) == nil {
		r.logger.Info("unknown tool called", zap.String("tool", env.Params.Name))
		return mcp.NewJSONRPCResultResponse(mcp.NewRequestId(env.ID), UnknownToolResult(env.Params.Name))
	}
	return r.mcp.HandleMessage(ctx, raw)
}

// UnknownToolResult is the tool result returned for an unregistered tool name.
func UnknownToolResult(name string) *mcp.CallToolResult {
	text, err := json.MarshalIndent(thinking.Failure{
		Error:  fmt.Sprintf("Unknown tool: %s", name),
		Status: thinking.StatusFailed,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown tool: %s", name))
	}
	return mcp.NewToolResultError(string(text))
}
