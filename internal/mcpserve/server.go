// Package mcpserve exposes the tool registry over the MCP stream protocol
// using the official MCP Go SDK (github.com/modelcontextprotocol/go-sdk).
//
// The adapter is deliberately thin: it translates each registered
// [tool.Descriptor] into an MCP tool declaration, decodes incoming call
// arguments into a raw map, and hands everything to [tool.Registry.Dispatch].
// Success renders as a single text content block; failure renders as a text
// block with a failure marker and IsError set. The stream protocol does not
// distinguish error kinds at the wire level.
package mcpserve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arlberg/toolgate/internal/tool"
)

// serverName identifies this server in the MCP initialize handshake.
const serverName = "toolgate"

// Server wraps an MCP SDK server bound to a tool registry.
type Server struct {
	registry *tool.Registry
	mcp      *mcpsdk.Server
	logger   *slog.Logger
}

// New builds the MCP server and registers one MCP tool per descriptor in the
// registry.
func New(registry *tool.Registry, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version}, nil)
	s := &Server{registry: registry, mcp: srv, logger: logger}

	for _, desc := range registry.Descriptors() {
		srv.AddTool(&mcpsdk.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: inputSchema(desc),
		}, s.handler(desc.Name))
	}

	return s
}

// Run serves the MCP protocol over stdin/stdout until ctx is cancelled or
// the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	if err := s.mcp.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcpserve: %w", err)
	}
	return nil
}

// handler adapts one tool into an MCP tool handler that dispatches through
// the registry.
func (s *Server) handler(name string) mcpsdk.ToolHandler {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		raw, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		res, err := s.registry.Dispatch(ctx, name, raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: res.Text}},
		}, nil
	}
}

// errorResult wraps a failure message as a textual content block with the
// protocol-level error flag set.
func errorResult(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}
}

// decodeArguments converts the SDK's argument payload into a plain map. The
// SDK delivers json.RawMessage for requests received off the wire and
// map[string]any for in-process calls; a JSON round-trip covers anything
// else.
func decodeArguments(v any) (map[string]any, error) {
	switch a := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return a, nil
	case json.RawMessage:
		return unmarshalArgs([]byte(a))
	case []byte:
		return unmarshalArgs(a)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return unmarshalArgs(data)
}

func unmarshalArgs(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// inputSchema builds the JSON Schema declaration for a descriptor's field
// specs.
func inputSchema(desc *tool.Descriptor) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	for _, f := range desc.Schema {
		schema.Properties[f.Name] = &jsonschema.Schema{
			Type:        string(f.Kind),
			Description: f.Description,
		}
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}
