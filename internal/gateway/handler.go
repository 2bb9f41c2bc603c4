// Package gateway implements the MCP Gateway's JSON-RPC dispatch and
// HTTP surface, per SPEC_FULL §4.1: terminate HTTP, decode JSON-RPC,
// dispatch to the Handler Registry, encode the response. Grounded on
// apps/edge-mcp/internal/mcp/handler.go's method-switch shape, trimmed
// of sessions, streaming, batching, and semantic-context concerns this
// system does not carry.
package gateway

import (
	"context"
	"encoding/json"

	"github.com/jleacox/mcp-gateway/internal/jsonrpc"
	"github.com/jleacox/mcp-gateway/internal/logging"
	"github.com/jleacox/mcp-gateway/internal/registry"
)

const defaultProtocolVersion = "2024-11-05"

type requestIDKey struct{}

// WithRequestID attaches a request-correlation ID to ctx, for Handle and
// everything it calls to log against. Set by Server.handleRPC from the
// inbound X-Request-ID header or a generated uuid, per SPEC_FULL §6.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestIDFrom returns the request ID stashed in ctx, or "" if none.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Handler dispatches decoded JSON-RPC requests to the registry.
type Handler struct {
	registry *registry.Registry
	log      logging.Logger
	metrics  Recorder
}

// Recorder is the subset of internal/metrics this package depends on, so
// tests can substitute a no-op.
type Recorder interface {
	RecordRPCRequest(method string)
	RecordToolCall(provider, tool, outcome string)
}

// NewHandler builds a Handler.
func NewHandler(reg *registry.Registry, log logging.Logger, metrics Recorder) *Handler {
	return &Handler{registry: reg, log: log, metrics: metrics}
}

// Handle dispatches one decoded request and returns the Response to
// serialize. It never returns an error itself — every failure mode is
// represented as a jsonrpc.Response with Error set, per SPEC_FULL §4.1.
func (h *Handler) Handle(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	h.metrics.RecordRPCRequest(req.Method)
	h.log.Debug("dispatching rpc request", logging.Fields{"request_id": requestIDFrom(ctx), "method": req.Method})

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "tools/list":
		return h.handleToolsList(req)
	case "tools/call":
		return h.handleToolsCall(ctx, req)
	case "resources/list":
		return jsonrpc.Success(req, map[string]interface{}{"resources": []interface{}{}})
	default:
		return jsonrpc.Fail(req, jsonrpc.NewError(jsonrpc.CodeMethodNotFound, "method not found: "+req.Method))
	}
}

func (h *Handler) handleInitialize(req jsonrpc.Request) jsonrpc.Response {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if len(req.Params) > 0 {
		_ = json.Unmarshal(req.Params, &params)
	}
	protocolVersion := params.ProtocolVersion
	if protocolVersion == "" {
		protocolVersion = defaultProtocolVersion
	}

	return jsonrpc.Success(req, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"serverInfo": map[string]interface{}{
			"name":    "mcp-gateway",
			"version": "1.0.0",
		},
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{"listChanged": true},
			"resources": map[string]interface{}{"listChanged": true},
		},
	})
}

func (h *Handler) handleToolsList(req jsonrpc.Request) jsonrpc.Response {
	tools := h.registry.List()
	described := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		described = append(described, map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}
	return jsonrpc.Success(req, map[string]interface{}{"tools": described})
}

func (h *Handler) handleToolsCall(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.Fail(req, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "invalid tools/call params: "+err.Error()))
	}
	if !h.registry.Has(params.Name) {
		return jsonrpc.Fail(req, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "unknown tool: "+params.Name))
	}

	result, _, err := h.registry.Call(ctx, params.Name, params.Arguments)
	provider, tool := splitToolName(params.Name)
	if err != nil {
		h.metrics.RecordToolCall(provider, tool, "error")
		h.log.Error("tool call failed", logging.Fields{
			"request_id": requestIDFrom(ctx),
			"tool":       params.Name,
			"error":      err.Error(),
		})
		return jsonrpc.Fail(req, jsonrpc.NewError(jsonrpc.CodeInternalError, err.Error()))
	}
	if result.IsError {
		h.metrics.RecordToolCall(provider, tool, "tool_error")
	} else {
		h.metrics.RecordToolCall(provider, tool, "ok")
	}
	return jsonrpc.Success(req, result)
}

func splitToolName(name string) (provider, tool string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '_' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
